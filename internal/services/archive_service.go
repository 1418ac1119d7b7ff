package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taxdesk/internal/common"
	"taxdesk/internal/models"
	"taxdesk/internal/repositories"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const archiveBucket = "tenant-archives"

// tenantSnapshot is the JSON document exported before a tenant is
// deleted, so billing history survives the cascade.
type tenantSnapshot struct {
	Company      *models.Company        `json:"company"`
	Plan         *models.CustomPlan     `json:"plan,omitempty"`
	Modules      []*models.CustomModule `json:"modules,omitempty"`
	MemberEmails []string               `json:"member_emails"`
	ExportedAt   time.Time              `json:"exported_at"`
}

// ArchiveService exports a tenant snapshot to object storage.
type ArchiveService interface {
	ArchiveTenant(ctx context.Context, companyID uuid.UUID) (string, error)
}

type archiveService struct {
	client *minio.Client
	repos  *repositories.Repositories
}

func NewArchiveService(endpoint, accessKey, secretKey string, useSSL bool, repos *repositories.Repositories) (ArchiveService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &archiveService{client: client, repos: repos}, nil
}

// ArchiveTenant uploads a JSON snapshot and returns the object key.
func (s *archiveService) ArchiveTenant(ctx context.Context, companyID uuid.UUID) (string, error) {
	snapshot, err := s.buildSnapshot(ctx, companyID)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}

	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	object := fmt.Sprintf("%s/%s.json", companyID, snapshot.ExportedAt.UTC().Format("20060102T150405Z"))
	_, err = s.client.PutObject(ctx, archiveBucket, object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", err
	}
	return object, nil
}

func (s *archiveService) buildSnapshot(ctx context.Context, companyID uuid.UUID) (*tenantSnapshot, error) {
	company, err := s.repos.Companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	snapshot := &tenantSnapshot{
		Company:    company,
		ExportedAt: time.Now(),
	}

	plan, err := s.repos.CustomPlans.GetByCompanyID(ctx, companyID)
	if err != nil && common.KindOf(err) != common.KindNotFound {
		return nil, err
	}
	if err == nil {
		snapshot.Plan = plan
		mods, err := s.repos.CustomModules.ListByPlan(ctx, plan.ID)
		if err != nil {
			return nil, err
		}
		snapshot.Modules = mods
	}

	members, err := s.repos.TaxUsers.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		snapshot.MemberEmails = append(snapshot.MemberEmails, m.Email)
	}

	return snapshot, nil
}

func (s *archiveService) ensureBucket(ctx context.Context) error {
	found, err := s.client.BucketExists(ctx, archiveBucket)
	if err != nil {
		return err
	}
	if !found {
		return s.client.MakeBucket(ctx, archiveBucket, minio.MakeBucketOptions{})
	}
	return nil
}
