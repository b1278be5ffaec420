// Package clients saves a submission-ready client to storage: payload
// preparation, validation, document upload and the profile/child row writes.
package clients

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/kylejryan/claims-admin/internal/ddb"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/metrics"
	"github.com/kylejryan/claims-admin/internal/models"
	"github.com/kylejryan/claims-admin/internal/s3io"
	"github.com/kylejryan/claims-admin/internal/validate"
)

// ErrNotFound is returned when updating or loading a client that does not exist.
var ErrNotFound = errors.New("client not found")

const (
	defaultClientName    = "Unnamed Client"
	defaultClientGroupID = 1
)

// Repository is the storage the service writes through.
type Repository interface {
	NextClientID(ctx context.Context) (int64, error)
	NextID(ctx context.Context, name string) (int64, error)
	SaveClient(ctx context.Context, c models.Client, create bool, rows []ddb.ChildRow, dels []ddb.ChildRef) error
	GetClient(ctx context.Context, clientID int64) (models.Client, error)
}

// Service creates and updates clients.
type Service struct {
	log     *logger.Logger
	metrics *metrics.Metrics
	repo    Repository
	blobs   s3io.Uploader
	bucket  string
}

// Config wires a Service. Metrics is optional.
type Config struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Repo    Repository
	Blobs   s3io.Uploader
	Bucket  string
}

// New builds a Service.
func New(cfg Config) *Service {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		log:     log.With("service", "Clients"),
		metrics: cfg.Metrics,
		repo:    cfg.Repo,
		blobs:   cfg.Blobs,
		bucket:  cfg.Bucket,
	}
}

// Get loads a client with its child rows.
func (s *Service) Get(ctx context.Context, id int64) (models.Client, error) {
	c, err := s.repo.GetClient(ctx, id)
	if errors.Is(err, ddb.ErrNotFound) {
		return c, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return c, err
}

// Create saves a new client and returns it as stored.
func (s *Service) Create(ctx context.Context, c models.Client) (out models.Client, err error) {
	defer func() { s.metrics.Save("create", err) }()

	c = Prepare(c)
	if err := validate.Client(c); err != nil {
		return out, err
	}
	id, err := s.repo.NextClientID(ctx)
	if err != nil {
		return out, err
	}
	c.ClientId = id
	rows, err := s.children(ctx, c)
	if err != nil {
		return out, err
	}
	if err := s.repo.SaveClient(ctx, c, true, rows, nil); err != nil {
		return out, fmt.Errorf("save client %d: %w", id, err)
	}
	s.log.Info("client created", "client_id", id)
	return s.Get(ctx, id)
}

// Update overwrites client id. Stored child rows that are not in c are
// deleted along with those listed in del.
func (s *Service) Update(ctx context.Context, id int64, c models.Client, del models.Deletions) (out models.Client, err error) {
	defer func() { s.metrics.Save("update", err) }()

	stored, err := s.Get(ctx, id)
	if err != nil {
		return out, err
	}
	c.ClientId = id
	c = Prepare(c)
	if err := validate.Client(c); err != nil {
		return out, err
	}
	rows, err := s.children(ctx, c)
	if err != nil {
		return out, err
	}
	dels := deletions(merge(del, dropped(stored, c)), rows)
	if err := s.repo.SaveClient(ctx, c, false, rows, dels); err != nil {
		return out, fmt.Errorf("save client %d: %w", id, err)
	}
	if len(dels) > 0 {
		s.log.Info("child rows deleted", "client_id", id, "count", len(dels))
	}
	s.log.Info("client updated", "client_id", id)
	return s.Get(ctx, id)
}

// Prepare fills the fields a save needs when the session left them empty and
// projects claim centres down to their link columns.
func Prepare(c models.Client) models.Client {
	c.ClientName = strings.TrimSpace(c.ClientName)
	if c.ClientName == "" {
		c.ClientName = defaultClientName
	}
	if c.PrintName == "" {
		c.PrintName = c.ClientName
	}
	if c.ClientGroupId == 0 {
		c.ClientGroupId = defaultClientGroupID
	}
	c.ClientGroup = nil

	centres := make([]models.ClientClaimCentre, 0, len(c.ClientClaimCentre))
	for _, cc := range c.ClientClaimCentre {
		centres = append(centres, models.ClientClaimCentre{
			ClientClaimCentreId: cc.ClientClaimCentreId,
			ClientId:            c.ClientId,
			ClaimCentreId:       cc.ClaimCentreId,
		})
	}
	c.ClientClaimCentre = centres
	return c
}

// children assigns ids to new child rows, uploads document files and returns
// every row to write.
func (s *Service) children(ctx context.Context, c models.Client) ([]ddb.ChildRow, error) {
	cid := c.ClientId
	var rows []ddb.ChildRow

	for _, v := range c.ClientService {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindService, &v.ClientServiceId); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindService, ID: v.ClientServiceId, Value: v})
	}
	for _, v := range c.ClientRatingQuestion {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindRatingQuestion, &v.ClientRatingQuestionId); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindRatingQuestion, ID: v.ClientRatingQuestionId, Value: v})
	}
	for _, v := range c.ClientClaimCentre {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindClaimCentre, &v.ClientClaimCentreId); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindClaimCentre, ID: v.ClientClaimCentreId, Value: v})
	}
	for _, v := range c.ClientServiceProvider {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindServiceProvider, &v.ClientServiceProviderId); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindServiceProvider, ID: v.ClientServiceProviderId, Value: v})
	}
	for _, v := range c.ClientClaimController {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindClaimController, &v.ClientClaimControllerId); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindClaimController, ID: v.ClientClaimControllerId, Value: v})
	}
	for _, v := range c.ClientDocument {
		v.ClientId = cid
		if err := s.assignID(ctx, ddb.KindDocument, &v.ClientDocumentId); err != nil {
			return nil, err
		}
		if err := s.upload(ctx, &v); err != nil {
			return nil, err
		}
		rows = append(rows, ddb.ChildRow{Kind: ddb.KindDocument, ID: v.ClientDocumentId, Value: v})
	}
	return rows, nil
}

func (s *Service) assignID(ctx context.Context, kind string, id *int64) error {
	if *id != 0 {
		return nil
	}
	n, err := s.repo.NextID(ctx, kind)
	if err != nil {
		return err
	}
	*id = n
	return nil
}

// upload moves a document's file bytes to S3 and replaces them with the key.
func (s *Service) upload(ctx context.Context, d *models.ClientDocument) error {
	if d.FileData == "" {
		return nil
	}
	body, err := base64.StdEncoding.DecodeString(models.PureBase64(d.FileData))
	if err != nil {
		return fmt.Errorf("document %d file data: %w", d.ClientDocumentId, err)
	}
	key := s3io.BuildDocumentKey(d.ClientId, d.ClientDocumentId, d.FileName)
	meta := s3io.DocumentMetadata(d.ClientId, d.ClientDocumentId, d.DocumentId)
	if _, err := s3io.Put(ctx, s.blobs, s.bucket, key, s3io.ContentTypeFor(d.FileName), meta, body); err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	s.log.Debug("document uploaded", "key", key, "bytes", len(body))
	d.FileKey = key
	d.FileSize = int64(len(body))
	d.FileData = ""
	return nil
}

type persisted interface{ PersistedID() int64 }

// missing returns the persisted ids in stored that next no longer carries.
func missing[T persisted](stored, next []T) []int64 {
	keep := make(map[int64]bool, len(next))
	for _, v := range next {
		keep[v.PersistedID()] = true
	}
	var out []int64
	for _, v := range stored {
		if id := v.PersistedID(); id != 0 && !keep[id] {
			out = append(out, id)
		}
	}
	return out
}

// dropped lists the stored child rows a save of next would otherwise leave
// behind: rows replaced wholesale or overwritten in the session.
func dropped(stored, next models.Client) models.Deletions {
	return models.Deletions{
		Services:         missing(stored.ClientService, next.ClientService),
		RatingQuestions:  missing(stored.ClientRatingQuestion, next.ClientRatingQuestion),
		Documents:        missing(stored.ClientDocument, next.ClientDocument),
		ClaimCentres:     missing(stored.ClientClaimCentre, next.ClientClaimCentre),
		ServiceProviders: missing(stored.ClientServiceProvider, next.ClientServiceProvider),
		ClaimControllers: missing(stored.ClientClaimController, next.ClientClaimController),
	}
}

func merge(a, b models.Deletions) models.Deletions {
	return models.Deletions{
		Services:         append(append([]int64(nil), a.Services...), b.Services...),
		RatingQuestions:  append(append([]int64(nil), a.RatingQuestions...), b.RatingQuestions...),
		Documents:        append(append([]int64(nil), a.Documents...), b.Documents...),
		ClaimCentres:     append(append([]int64(nil), a.ClaimCentres...), b.ClaimCentres...),
		ServiceProviders: append(append([]int64(nil), a.ServiceProviders...), b.ServiceProviders...),
		ClaimControllers: append(append([]int64(nil), a.ClaimControllers...), b.ClaimControllers...),
	}
}

// deletions flattens del into row references, skipping duplicates and rows
// that are written in the same save.
func deletions(del models.Deletions, rows []ddb.ChildRow) []ddb.ChildRef {
	seen := make(map[ddb.ChildRef]bool, len(rows))
	for _, r := range rows {
		seen[ddb.ChildRef{Kind: r.Kind, ID: r.ID}] = true
	}
	groups := []struct {
		kind string
		ids  []int64
	}{
		{ddb.KindService, del.Services},
		{ddb.KindRatingQuestion, del.RatingQuestions},
		{ddb.KindDocument, del.Documents},
		{ddb.KindClaimCentre, del.ClaimCentres},
		{ddb.KindServiceProvider, del.ServiceProviders},
		{ddb.KindClaimController, del.ClaimControllers},
	}
	var out []ddb.ChildRef
	for _, g := range groups {
		for _, id := range g.ids {
			ref := ddb.ChildRef{Kind: g.kind, ID: id}
			if id == 0 || seen[ref] {
				continue
			}
			seen[ref] = true
			out = append(out, ref)
		}
	}
	return out
}
