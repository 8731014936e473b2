// Package commands contains CLI command implementations for the application.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/google/uuid"

	"github.com/allisson/vaultactions/internal/app"
	"github.com/allisson/vaultactions/internal/fixedpoint"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// closeContainer closes all resources in the container and logs any errors.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes the migration instance and logs any errors.
func closeMigrate(migrate *migrate.Migrate, logger *slog.Logger) {
	sourceError, databaseError := migrate.Close()
	if sourceError != nil || databaseError != nil {
		logger.Error(
			"failed to close the migrate",
			slog.Any("source_error", sourceError),
			slog.Any("database_error", databaseError),
		)
	}
}

// parseID parses a UUID flag value with a descriptive error.
func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: must be a valid UUID", name)
	}
	return id, nil
}

// parseAmount parses a non-negative integer amount flag value.
func parseAmount(value string) (*big.Int, error) {
	amount, err := fixedpoint.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount: must be a non-negative integer string")
	}
	return amount, nil
}

// validFormat reports whether the output format flag is supported.
func validFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}
