package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/stockku/inventory-core/internal/application/catalog"
)

var _ catalog.ImageUploader = (*Uploader)(nil)

// Config endpoint de subida sin firmar: recibe los campos file y
// upload_preset y responde con secure_url.
type Config struct {
	UploadURL    string
	UploadPreset string
}

// Uploader cliente del endpoint de subida de activos binarios. El core solo
// guarda la URL pública devuelta; no valida la imagen en sí.
type Uploader struct {
	cfg    Config
	client *http.Client
}

// NewUploader construye el cliente con un timeout propio de subida.
func NewUploader(cfg Config) *Uploader {
	return &Uploader{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload envía el payload como multipart y devuelve la URL pública.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	if u.cfg.UploadURL == "" {
		return "", fmt.Errorf("assets: upload URL no configurada")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("upload_preset", u.cfg.UploadPreset); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.cfg.UploadURL, pr)
	if err != nil {
		return "", fmt.Errorf("assets: crear petición: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("assets: subir imagen: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("assets: subida rechazada (%d): %s", resp.StatusCode, body)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("assets: decodificar respuesta: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("assets: respuesta sin secure_url")
	}
	return out.SecureURL, nil
}
