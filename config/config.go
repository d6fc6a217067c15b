package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/agentsystems/model-router/model"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the conventional location of the configuration file,
// relative to the working directory.
const DefaultPath = "agentsystems-config.yml"

// ErrNotFound is matched by the error returned when the configuration file is absent.
var ErrNotFound = errors.New("AgentSystems config not found")

// NotFoundError reports a missing configuration file and the path that was tried.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("AgentSystems config not found at %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Source produces a freshly parsed configuration document on every call.
type Source interface {
	Load() (*model.ConfigDocument, error)
	// Location describes where the document comes from, for logs and errors.
	Location() string
}

// FileSource reads the configuration from a YAML file on disk.
type FileSource struct {
	Path   string
	Logger *zap.Logger
}

// NewFileSource returns a FileSource for path, or DefaultPath when path is empty.
func NewFileSource(path string, logger *zap.Logger) *FileSource {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{Path: path, Logger: logger}
}

// Location returns the file path.
func (s *FileSource) Location() string {
	return s.Path
}

// Load reads and parses the file. A missing file yields a *NotFoundError;
// parse errors from the YAML decoder are returned as they are.
func (s *FileSource) Load() (*model.ConfigDocument, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := os.Stat(s.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Config file not found", zap.String("file", s.Path))
			return nil, &NotFoundError{Path: s.Path}
		}
		logger.Error("Failed to stat config file", zap.String("file", s.Path), zap.Error(err))
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		logger.Error("Failed to read config file", zap.String("file", s.Path), zap.Error(err))
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		logger.Error("Failed to parse config file", zap.String("file", s.Path), zap.Error(err))
		return nil, err
	}
	logger.Debug("Config file loaded and parsed",
		zap.String("file", s.Path),
		zap.Int("configVersion", doc.ConfigVersion),
		zap.Int("modelConnections", len(doc.ModelConnections)))
	return doc, nil
}

// DocumentSource serves an already parsed document. Each Load returns a copy.
type DocumentSource struct {
	Doc *model.ConfigDocument
}

// Location identifies the in-memory document.
func (s DocumentSource) Location() string {
	return "<in-memory>"
}

// Load returns a copy of the wrapped document.
func (s DocumentSource) Load() (*model.ConfigDocument, error) {
	if s.Doc == nil {
		return nil, &NotFoundError{Path: s.Location()}
	}
	return s.Doc.Clone(), nil
}

// Parse decodes a YAML configuration document. Duplicate model names are
// rejected by the decoder.
func Parse(data []byte) (*model.ConfigDocument, error) {
	var doc model.ConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// LoadEnv loads variables from .env files into the process environment.
// Variables that are already set take precedence over the files.
func LoadEnv(logger *zap.Logger, files ...string) {
	if err := godotenv.Load(files...); err != nil {
		logger.Debug("No .env file found or unable to load it, continuing with system environment variables", zap.Strings("files", files), zap.Error(err))
		return
	}
	logger.Info(".env file loaded successfully", zap.Strings("files", files))
}
