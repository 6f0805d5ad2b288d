package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go.uber.org/zap"

	"neuroscan-server/configs"
	"neuroscan-server/internal/apperrors"
)

// Prediction is the classifier verdict: a label from the closed tumor
// enumeration and a confidence percentage in [0,100].
type Prediction struct {
	Label      string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// Classifier maps a brain-scan image to a tumor prediction. The model is
// an opaque collaborator; implementations must not retry on failure.
type Classifier interface {
	Classify(ctx context.Context, filename string, image []byte) (*Prediction, error)
}

// HTTPClassifier calls an external inference service over HTTP. It is
// constructed once at startup and injected into the diagnosis pipeline.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

func NewHTTPClassifier(cfg configs.ClassifierConfig, logger *zap.Logger) *HTTPClassifier {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Classify posts the image as multipart form data and decodes the
// prediction payload. Any transport or decode failure surfaces as a
// collaborator error; the caller does not distinguish transient from
// permanent failures.
func (c *HTTPClassifier) Classify(ctx context.Context, filename string, image []byte) (*Prediction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}
	if err := writer.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Classifier request failed", zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Classifier returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload),
		)
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.",
			fmt.Errorf("classifier status %d", resp.StatusCode))
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCollaborator, "Error during image prediction.", err)
	}

	return &prediction, nil
}
