package service

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"chirper/internal/model"
)

func TestDecodeDataURL(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("fake image bytes"))

	tests := []struct {
		name    string
		dataURL string
		wantErr error
	}{
		{
			name:    "valid png",
			dataURL: "data:image/png;base64," + payload,
			wantErr: nil,
		},
		{
			name:    "valid webp",
			dataURL: "data:image/webp;base64," + payload,
			wantErr: nil,
		},
		{
			name:    "not a data url",
			dataURL: "https://example.com/img.png",
			wantErr: model.ErrInvalidImage,
		},
		{
			name:    "missing comma",
			dataURL: "data:image/png;base64" + payload,
			wantErr: model.ErrInvalidImage,
		},
		{
			name:    "not base64 encoded",
			dataURL: "data:image/png," + payload,
			wantErr: model.ErrInvalidImage,
		},
		{
			name:    "disallowed type",
			dataURL: "data:application/pdf;base64," + payload,
			wantErr: model.ErrInvalidImage,
		},
		{
			name:    "corrupt base64",
			dataURL: "data:image/png;base64,!!!not-base64!!!",
			wantErr: model.ErrInvalidImage,
		},
		{
			name:    "oversized payload",
			dataURL: "data:image/png;base64," + strings.Repeat("A", model.MaxImageSizeBytes*4/3+8),
			wantErr: model.ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := decodeDataURL(tt.dataURL)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(data) != "fake image bytes" {
				t.Errorf("decoded = %q, want original bytes", data)
			}
		})
	}
}
