package audit

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yarsanich/openprocurement.auction.worker/core"
	"github.com/yarsanich/openprocurement.auction.worker/metrics"
)

// FileUploader pushes a finalized audit blob to external durable storage.
// DocumentService is the production implementation.
type FileUploader interface {
	Upload(ctx context.Context, filename string, blob []byte) (string, error)
}

// DocumentAttacher stores a blob as an attachment on the auction document,
// the fallback path when no document service is configured. Satisfied by
// the store client.
type DocumentAttacher interface {
	AttachAudit(ctx context.Context, doc *core.AuctionDocument, name, contentType string, body []byte) error
}

// Uploader gates audit publication: nothing leaves the worker until the
// trail carries an approved results entry.
type Uploader struct {
	trail    *Trail
	service  FileUploader
	attacher DocumentAttacher
	log      zerolog.Logger
}

// NewUploader builds the gatekeeper for trail. Either target may be nil if
// that path is not configured.
func NewUploader(trail *Trail, service FileUploader, attacher DocumentAttacher, log zerolog.Logger) *Uploader {
	return &Uploader{trail: trail, service: service, attacher: attacher, log: log}
}

func (u *Uploader) filename() string {
	return fmt.Sprintf("audit_%s.yaml", u.trail.ID)
}

// approved checks the gate, logging the refusal when the trail is not yet
// finalized. The log line is load-bearing for operators.
func (u *Uploader) approved(path string) bool {
	if u.trail.Approved() {
		return true
	}
	metrics.AuditUploads.WithLabelValues(path, "skipped").Inc()
	u.log.Warn().Msg("Audit log not approved.")
	return false
}

// UploadWithDocumentService exports the trail through the document service
// and returns the durable URL. Before approval it is a no-op returning "".
func (u *Uploader) UploadWithDocumentService(ctx context.Context) (string, error) {
	if !u.approved("document_service") {
		return "", nil
	}
	blob, err := u.trail.ExportYAML()
	if err != nil {
		return "", err
	}
	url, err := u.service.Upload(ctx, u.filename(), blob)
	if err != nil {
		metrics.AuditUploads.WithLabelValues("document_service", "error").Inc()
		return "", fmt.Errorf("upload audit for %s: %w", u.trail.ID, err)
	}
	metrics.AuditUploads.WithLabelValues("document_service", "ok").Inc()
	u.log.Info().Str("url", url).Msg(fmt.Sprintf("Audit log approved and uploaded for %s", u.trail.ID))
	return url, nil
}

// UploadAsAttachment exports the trail as an attachment on the auction
// document itself. Before approval it is a no-op.
func (u *Uploader) UploadAsAttachment(ctx context.Context, doc *core.AuctionDocument) error {
	if !u.approved("attachment") {
		return nil
	}
	blob, err := u.trail.ExportYAML()
	if err != nil {
		return err
	}
	if err := u.attacher.AttachAudit(ctx, doc, u.filename(), "application/yaml", blob); err != nil {
		metrics.AuditUploads.WithLabelValues("attachment", "error").Inc()
		return fmt.Errorf("attach audit for %s: %w", u.trail.ID, err)
	}
	metrics.AuditUploads.WithLabelValues("attachment", "ok").Inc()
	u.log.Info().Msg(fmt.Sprintf("Audit log approved and attached for %s", u.trail.ID))
	return nil
}
