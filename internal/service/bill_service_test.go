package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billscan/internal/config"
	"billscan/internal/domain"
	"billscan/internal/normalizer"
	"billscan/internal/port"
	"billscan/internal/rules"
	"billscan/internal/service"
	"billscan/mocks"
)

const medicalBill = `ANYTOWN MEDICAL CENTER
VENDOR: Anytown Medical Center
BALANCE DUE: $48.00
DATE: 2024-03-01
CATEGORY: Healthcare`

func newBillService(repo *mocks.MockRecordRepo, storage *mocks.MockObjectStorage) service.BillService {
	cfg := &config.S3Config{Bucket: "test-bucket", MaxTextSizeKB: 64, PresignExpiry: 600}
	opts := normalizer.Options{Now: func() time.Time {
		return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	}}
	return service.NewBillService(repo, storage, rules.DefaultSet(), opts, cfg)
}

func TestBillService_Ingest(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newBillService(repo, storage)

	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "test-bucket" && in.ContentType == "text/plain; charset=utf-8"
	})).Return(&port.UploadOutput{Location: "s3://test-bucket/x"}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Ingest(context.Background(), service.IngestInput{Text: medicalBill})
	require.NoError(t, err)

	assert.Equal(t, "Anytown Medical Center", rec.VendorOr(""))
	assert.Equal(t, "48", rec.Amount.String())
	assert.Equal(t, "bills/raw/"+rec.ID.String()+".txt", rec.SourceKey)
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestBillService_IngestRejectsBlankAndOversized(t *testing.T) {
	svc := newBillService(new(mocks.MockRecordRepo), new(mocks.MockObjectStorage))

	_, err := svc.Ingest(context.Background(), service.IngestInput{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := make([]byte, 65*1024)
	for i := range big {
		big[i] = 'a'
	}
	_, err = svc.Ingest(context.Background(), service.IngestInput{Text: string(big)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBillService_IngestUploadFailure(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newBillService(repo, storage)

	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 down"))

	_, err := svc.Ingest(context.Background(), service.IngestInput{Text: medicalBill})
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBillService_ReextractKeepsCorrections(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newBillService(repo, storage)

	// Seed: ingest once, then correct the vendor.
	storage.On("Upload", mock.Anything, mock.Anything).Return(&port.UploadOutput{}, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	rec, err := svc.Ingest(context.Background(), service.IngestInput{Text: medicalBill})
	require.NoError(t, err)

	repo.On("GetByID", mock.Anything, rec.ID).Return(rec, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)
	corrected, err := svc.Correct(context.Background(), rec.ID, domain.FieldVendor, "Anytown Medical Group")
	require.NoError(t, err)
	require.True(t, corrected.Overridden(domain.FieldVendor))

	// Re-extraction pulls the raw text from storage and keeps the
	// corrected vendor.
	storage.On("Download", mock.Anything, "test-bucket", rec.SourceKey).Return([]byte(medicalBill), nil)
	again, err := svc.Reextract(context.Background(), rec.ID)
	require.NoError(t, err)

	assert.Equal(t, rec.ID, again.ID)
	assert.Equal(t, "Anytown Medical Group", again.VendorOr(""))
	assert.Equal(t, "48", again.Amount.String())
}

func TestBillService_CorrectUnknownField(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	svc := newBillService(repo, new(mocks.MockObjectStorage))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(&domain.BillRecord{ID: id, Fields: domain.FieldMetaMap{}}, nil)

	_, err := svc.Correct(context.Background(), id, "subtotal", "1.00")
	assert.ErrorIs(t, err, domain.ErrCorrectionConflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBillService_DeleteRemovesStoredText(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newBillService(repo, storage)

	id := uuid.New()
	rec := &domain.BillRecord{ID: id, SourceKey: "bills/raw/" + id.String() + ".txt"}
	repo.On("GetByID", mock.Anything, id).Return(rec, nil)
	repo.On("Delete", mock.Anything, id).Return(nil)
	storage.On("Delete", mock.Anything, "test-bucket", rec.SourceKey).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), id))
	storage.AssertExpectations(t)
}

func TestBillService_DeleteMissingRecord(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	svc := newBillService(repo, new(mocks.MockObjectStorage))

	id := uuid.New()
	repo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), domain.ErrRecordNotFound)
}

func TestBillService_GetRawTextURL(t *testing.T) {
	repo := new(mocks.MockRecordRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newBillService(repo, storage)

	id := uuid.New()
	rec := &domain.BillRecord{ID: id, SourceKey: "bills/raw/" + id.String() + ".txt"}
	repo.On("GetByID", mock.Anything, id).Return(rec, nil)
	storage.On("GetPresignedURL", mock.Anything, "test-bucket", rec.SourceKey, int64(600)).
		Return("https://signed.example/x", nil)

	url, err := svc.GetRawTextURL(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/x", url)
}
