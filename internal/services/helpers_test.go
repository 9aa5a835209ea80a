package services_test

import (
	"context"
	"io"

	"github.com/vytor/wrongnote/internal/logger"
)

func ctx() context.Context {
	return logger.NewContext(context.Background(), logger.New(logger.WithOutput(io.Discard)))
}
