package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/extraction"
	"billscan/internal/normalizer"
	"billscan/internal/port"
	"billscan/internal/rules"
)

// IngestInput is the DTO for bill ingestion requests. Text is the
// already-extracted document text; decoding images or PDFs happens
// upstream of this service.
type IngestInput struct {
	Text         string
	Format       string
	LanguageHint string
}

// BillService defines the bill record lifecycle contract.
type BillService interface {
	Ingest(ctx context.Context, input IngestInput) (*domain.BillRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillRecord, int, error)
	// Reextract reruns the current rule set against the stored raw text
	// and merges the result over the existing record, keeping manual
	// corrections.
	Reextract(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error)
	Correct(ctx context.Context, id uuid.UUID, field domain.Field, value string) (*domain.BillRecord, error)
	GetRawTextURL(ctx context.Context, id uuid.UUID) (string, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type billService struct {
	records port.RecordRepository
	storage port.ObjectStorage
	ruleSet *rules.Set
	normOpt normalizer.Options
	cfg     *config.S3Config
}

// NewBillService creates a new BillService implementation.
func NewBillService(
	records port.RecordRepository,
	storage port.ObjectStorage,
	ruleSet *rules.Set,
	normOpt normalizer.Options,
	cfg *config.S3Config,
) BillService {
	return &billService{
		records: records,
		storage: storage,
		ruleSet: ruleSet,
		normOpt: normOpt,
		cfg:     cfg,
	}
}

func (s *billService) Ingest(ctx context.Context, input IngestInput) (*domain.BillRecord, error) {
	text := input.Text
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidInput
	}
	maxBytes := s.cfg.MaxTextSizeKB * 1024
	if maxBytes > 0 && int64(len(text)) > maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d KB", domain.ErrInvalidInput, s.cfg.MaxTextSizeKB)
	}

	draft, err := extraction.Extract(domain.RawDocument{
		Text:         text,
		Format:       input.Format,
		LanguageHint: input.LanguageHint,
	}, s.ruleSet)
	if err != nil {
		return nil, err
	}

	rec, err := normalizer.Normalize(draft, nil, s.normOpt)
	if err != nil {
		return nil, err
	}
	rec.SourceKey = fmt.Sprintf("bills/raw/%s.txt", rec.ID)

	log.Printf("billService.Ingest: record %s vendor=%q category=%s incomplete=%t",
		rec.ID, rec.VendorOr(""), rec.Category, rec.Incomplete())

	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         rec.SourceKey,
		Body:        strings.NewReader(text),
		ContentType: "text/plain; charset=utf-8",
		Size:        int64(len(text)),
	})
	if err != nil {
		log.Printf("billService.Ingest: raw text upload failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.records.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("creating bill record: %w", err)
	}
	return rec, nil
}

func (s *billService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error) {
	return s.records.GetByID(ctx, id)
}

func (s *billService) List(ctx context.Context, offset, limit int) ([]domain.BillRecord, int, error) {
	return s.records.List(ctx, offset, limit)
}

func (s *billService) Reextract(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error) {
	prev, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Prefer the stored object; the DB copy covers records whose raw
	// text predates object storage.
	text := prev.RawText
	if prev.SourceKey != "" {
		data, err := s.storage.Download(ctx, s.cfg.Bucket, prev.SourceKey)
		if err != nil {
			log.Printf("billService.Reextract: download %s failed, using db copy: %v", prev.SourceKey, err)
		} else {
			text = string(data)
		}
	}

	draft, err := extraction.Extract(domain.RawDocument{Text: text}, s.ruleSet)
	if err != nil {
		return nil, err
	}
	rec, err := normalizer.Normalize(draft, prev, s.normOpt)
	if err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("updating bill record: %w", err)
	}
	return rec, nil
}

func (s *billService) Correct(ctx context.Context, id uuid.UUID, field domain.Field, value string) (*domain.BillRecord, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if s.normOpt.Now != nil {
		now = s.normOpt.Now()
	}
	if err := normalizer.ApplyCorrection(rec, field, value, now); err != nil {
		return nil, err
	}

	log.Printf("billService.Correct: record %s field=%s", rec.ID, field)

	if err := s.records.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("updating bill record: %w", err)
	}
	return rec, nil
}

func (s *billService) GetRawTextURL(ctx context.Context, id uuid.UUID) (string, error) {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.SourceKey == "" {
		return "", domain.ErrRecordNotFound
	}
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, rec.SourceKey, s.cfg.PresignExpiry)
}

func (s *billService) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.records.Delete(ctx, id); err != nil {
		return err
	}
	if rec.SourceKey != "" {
		if err := s.storage.Delete(ctx, s.cfg.Bucket, rec.SourceKey); err != nil {
			// The DB row is gone; an orphaned object is a cleanup
			// problem, not a failed delete.
			log.Printf("billService.Delete: deleting %s from storage failed: %v", rec.SourceKey, err)
		}
	}
	return nil
}
