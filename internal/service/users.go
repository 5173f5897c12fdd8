package service

import (
	"context"

	"github.com/yassine-cc/pb-mcp/internal/log"
	"github.com/yassine-cc/pb-mcp/internal/pberr"
	"github.com/yassine-cc/pb-mcp/internal/pocketbase"
)

// Users provides CRUD scoped to an auth-type collection. The operations
// mirror the record service; only creation has a dedicated payload
// shape. Validation of user data is the backend's job.
type Users struct {
	records *Records
	logger  log.Logger
}

// NewUsers creates the user service.
func NewUsers(logger log.Logger) *Users {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Users{records: NewRecords(logger), logger: logger}
}

// NewUserData is the payload for creating an application user.
type NewUserData struct {
	Email           string
	Password        string
	PasswordConfirm string
	EmailVisibility bool
	Verified        bool
	Name            string
	Extra           map[string]any
}

func (d NewUserData) body() map[string]any {
	body := map[string]any{
		"email":           d.Email,
		"password":        d.Password,
		"passwordConfirm": d.PasswordConfirm,
		"emailVisibility": d.EmailVisibility,
		"verified":        d.Verified,
	}
	if d.Name != "" {
		body["name"] = d.Name
	}
	for k, v := range d.Extra {
		// Explicit fields win over free-form extras.
		if _, taken := body[k]; !taken {
			body[k] = v
		}
	}
	return body
}

func userCollection(collection string) string {
	if collection == "" {
		return pocketbase.DefaultUserCollection
	}
	return collection
}

// List returns one page of users.
func (s *Users) List(ctx context.Context, client *pocketbase.Client, collection string, opts pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	return s.records.List(ctx, client, userCollection(collection), opts)
}

// GetAll returns every matching user.
func (s *Users) GetAll(ctx context.Context, client *pocketbase.Client, collection string, opts pocketbase.ListOptions) (*pocketbase.ListResult, error) {
	return s.records.GetAll(ctx, client, userCollection(collection), opts)
}

// Get fetches one user by id.
func (s *Users) Get(ctx context.Context, client *pocketbase.Client, collection, id string, opts pocketbase.ListOptions) (pocketbase.Record, error) {
	return s.records.Get(ctx, client, userCollection(collection), id, opts)
}

// Create registers a new user in the auth collection.
func (s *Users) Create(ctx context.Context, client *pocketbase.Client, collection string, data NewUserData, headers map[string]string) (pocketbase.Record, error) {
	rec, err := client.CreateRecord(ctx, userCollection(collection), data.body(), headers)
	if err != nil {
		return nil, pberr.Classify(err)
	}
	s.logger.Debug("user created", "collection", userCollection(collection), "id", rec.ID())
	return rec, nil
}

// Update applies a partial update to a user.
func (s *Users) Update(ctx context.Context, client *pocketbase.Client, collection, id string, data map[string]any, headers map[string]string) (pocketbase.Record, error) {
	return s.records.Update(ctx, client, userCollection(collection), id, data, headers)
}

// Delete removes a user by id.
func (s *Users) Delete(ctx context.Context, client *pocketbase.Client, collection, id string, headers map[string]string) error {
	return s.records.Delete(ctx, client, userCollection(collection), id, headers)
}
