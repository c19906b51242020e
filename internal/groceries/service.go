package groceries

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/trailmeals/server/internal/blob"
	"github.com/trailmeals/server/internal/catalog"
	"github.com/trailmeals/server/internal/storage"
)

// StatusReady marks a completed export.
const StatusReady = "ready"

// Service builds grocery lists and manages PDF exports.
type Service struct {
	trips      storage.TripsStorage
	entries    storage.MealEntriesStorage
	exports    storage.GroceryExportsStorage
	catalog    catalog.DocumentStore
	blobStore  blob.Store
	localMode  bool
	presignTTL int
}

// NewService creates a groceries service. A nil blobStore selects local
// mode, where export data is kept alongside the metadata.
func NewService(
	trips storage.TripsStorage,
	entries storage.MealEntriesStorage,
	exports storage.GroceryExportsStorage,
	cat catalog.DocumentStore,
	blobStore blob.Store,
	presignTTL int,
) *Service {
	return &Service{
		trips:      trips,
		entries:    entries,
		exports:    exports,
		catalog:    cat,
		blobStore:  blobStore,
		localMode:  blobStore == nil,
		presignTTL: presignTTL,
	}
}

// List derives the consolidated grocery list for a trip.
func (s *Service) List(ctx context.Context, ownerUserID string, tripID uuid.UUID) ([]Item, error) {
	if _, err := s.ownedTrip(ctx, ownerUserID, tripID); err != nil {
		return nil, err
	}

	entries, err := s.entries.ListEntries(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return BuildList(ctx, s.catalog, entries), nil
}

// Export renders the grocery list to PDF and stores it.
func (s *Service) Export(ctx context.Context, ownerUserID string, tripID uuid.UUID) (*storage.GroceryExport, error) {
	trip, err := s.ownedTrip(ctx, ownerUserID, tripID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListEntries(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	data, err := GeneratePDF(trip, BuildList(ctx, s.catalog, entries))
	if err != nil {
		return nil, err
	}

	export := &storage.GroceryExport{
		TripID:    tripID,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode {
		export.Data = data
	} else {
		objectKey := fmt.Sprintf("groceries/%s/%s.pdf", tripID.String(), uuid.New().String())
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, "application/pdf"); err != nil {
			return nil, fmt.Errorf("failed to upload export: %w", err)
		}
		export.ObjectKey = &objectKey
	}

	if err := s.exports.CreateExport(ctx, export); err != nil {
		return nil, fmt.Errorf("failed to save export metadata: %w", err)
	}
	return export, nil
}

// DownloadURL returns where the export can be fetched: a direct endpoint in
// local mode, a presigned URL in S3 mode.
func (s *Service) DownloadURL(ctx context.Context, ownerUserID string, exportID uuid.UUID, baseURL string) (string, error) {
	export, err := s.ownedExport(ctx, ownerUserID, exportID)
	if err != nil {
		return "", err
	}

	if s.localMode {
		return fmt.Sprintf("%s/v1/groceries/exports/%s/download", strings.TrimSuffix(baseURL, "/"), exportID.String()), nil
	}

	if export.ObjectKey == nil {
		return "", fmt.Errorf("object key is missing")
	}
	url, err := s.blobStore.PresignGet(ctx, *export.ObjectKey, s.presignTTL)
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return url, nil
}

// ExportData returns the raw PDF bytes for a local-mode download.
func (s *Service) ExportData(ctx context.Context, ownerUserID string, exportID uuid.UUID) ([]byte, error) {
	export, err := s.ownedExport(ctx, ownerUserID, exportID)
	if err != nil {
		return nil, err
	}

	if s.localMode {
		return export.Data, nil
	}
	if export.ObjectKey == nil {
		return nil, fmt.Errorf("object key is missing")
	}
	return s.blobStore.GetObject(ctx, *export.ObjectKey)
}

func (s *Service) ownedTrip(ctx context.Context, ownerUserID string, tripID uuid.UUID) (*storage.Trip, error) {
	trip, err := s.trips.GetTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OwnerUserID != ownerUserID {
		return nil, storage.ErrNotFound
	}
	return trip, nil
}

func (s *Service) ownedExport(ctx context.Context, ownerUserID string, exportID uuid.UUID) (*storage.GroceryExport, error) {
	export, err := s.exports.GetExport(ctx, exportID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedTrip(ctx, ownerUserID, export.TripID); err != nil {
		return nil, err
	}
	return export, nil
}
