package common

import (
	"fmt"
	"os"
	"path/filepath"

	"jobmatch/internal/errors"
	"jobmatch/internal/utils"
)

// FileProcessor handles common file operations
type FileProcessor struct {
	logger *errors.Logger
}

// NewFileProcessor creates a new file processor instance
func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// WriteFile writes content to a file with directory creation
func (fp *FileProcessor) WriteFile(filename, content string) error {
	dir := filepath.Dir(filename)
	if dir != "." {
		err := os.MkdirAll(dir, 0750)
		if err != nil {
			return errors.NewDataError(errors.ErrCodeFileNotReadable,
				fmt.Sprintf("Cannot create directory: %s", dir), err)
		}
	}

	err := os.WriteFile(filename, []byte(content), 0600)
	if err != nil {
		return errors.NewDataError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot write file: %s", filename), err)
	}

	return nil
}

// ValidateSeedFile validates a store seed or fallback catalog file path
func (fp *FileProcessor) ValidateSeedFile(filename string) error {
	if err := utils.ValidateInputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid file %s", filename), err)
	}

	// Warn about unexpected extensions
	if !utils.IsDataFile(filename) {
		if fp.logger != nil {
			fp.logger.Warn("File may not be a YAML or JSON data file",
				"filename", filename)
		} else {
			fmt.Fprintf(os.Stderr, "Warning: %s may not be a YAML or JSON data file\n", filename)
		}
	}

	return nil
}

// ValidateOutputFile validates output file path
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if filename == "" {
		return nil // stdout is valid
	}

	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("Invalid output file: %s", filename), err)
	}

	return nil
}
