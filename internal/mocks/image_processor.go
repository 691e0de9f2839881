package mocks

import (
	"io"

	"github.com/stretchr/testify/mock"
)

// ImageProcessor is a mock of service.ImageProcessor.
type ImageProcessor struct {
	mock.Mock
}

func NewImageProcessor(t TestingT) *ImageProcessor {
	m := &ImageProcessor{}
	register(&m.Mock, t)
	return m
}

func (m *ImageProcessor) Process(contentType string, src io.Reader) (io.Reader, error) {
	args := m.Called(contentType, src)
	var r io.Reader
	if v := args.Get(0); v != nil {
		r = v.(io.Reader)
	}
	return r, args.Error(1)
}
