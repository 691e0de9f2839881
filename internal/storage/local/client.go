// Package local stores recipe images in a directory on the local disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dtroode/recipes-server/internal/model"
)

var _ model.Storage = (*Client)(nil)

// Client keeps images as flat files under dir.
type Client struct {
	dir string
}

// NewClient creates the image directory if needed and returns a Client for it.
func NewClient(dir string) (*Client, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &Client{dir: dir}, nil
}

func (c *Client) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("%w: invalid image key %q", model.ErrInvalidInput, key)
	}
	return filepath.Join(c.dir, key), nil
}

// Upload writes reader to a new file named key. Partially written files are removed.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err := io.Copy(f, reader); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("failed to write image file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(p)
		return fmt.Errorf("failed to close image file: %w", err)
	}

	return nil
}

// Download opens the file named key.
func (c *Client) Download(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := c.path(key)
	if err != nil {
		return nil, model.ErrNotFound
	}

	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return f, nil
}

// Delete removes the file named key. Missing files are not an error.
func (c *Client) Delete(_ context.Context, key string) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// Exists checks if a file named key is present.
func (c *Client) Exists(_ context.Context, key string) (bool, error) {
	p, err := c.path(key)
	if err != nil {
		return false, nil
	}

	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat image file: %w", err)
	}
	return info.Mode().IsRegular(), nil
}
