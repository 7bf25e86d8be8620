package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/redis/go-redis/v9"
)

const identityCacheTTL = 10 * time.Minute

// IdentityService resolves user ids against the external identity provider.
// User data is never owned locally; lookups are batch, cached in Redis, and
// tolerant of partial results: an id the provider does not know simply stays
// absent from the returned map.
type IdentityService struct {
	client  *http.Client
	baseURL string
	rdb     *redis.Client
	logger  logger.Logger
}

type IdentityServiceOptions struct {
	BaseURL string
	Redis   *redis.Client
	Logger  logger.Logger
}

func NewIdentityService(opts IdentityServiceOptions) *IdentityService {
	return &IdentityService{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		rdb:     opts.Redis,
		logger:  opts.Logger,
	}
}

// GetUsers returns {id, name, avatar} for every id the provider knows,
// keyed by id.
func (s *IdentityService) GetUsers(ctx context.Context, ids []string) (map[string]dto.IdentityUser, error) {
	users := make(map[string]dto.IdentityUser, len(ids))

	seen := make(map[string]bool, len(ids))
	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		var cached dto.IdentityUser
		if s.rdb != nil {
			if err := GetFromRedis(ctx, s.rdb, identityCacheKey(id), &cached); err == nil && cached.ID != "" {
				users[id] = cached
				continue
			}
		}
		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return users, nil
	}

	fetched, err := s.fetch(ctx, missing)
	if err != nil {
		// Partial results are acceptable; authors just go missing.
		s.logger.Error("identity lookup failed for %d id(s): %v", len(missing), err)
		return users, nil
	}

	for _, user := range fetched {
		users[user.ID] = user
		if s.rdb != nil {
			if err := SetToRedis(ctx, s.rdb, identityCacheKey(user.ID), user, identityCacheTTL); err != nil {
				s.logger.Error("cannot cache identity %s: %v", user.ID, err)
			}
		}
	}
	return users, nil
}

func (s *IdentityService) fetch(ctx context.Context, ids []string) ([]dto.IdentityUser, error) {
	apiURL := fmt.Sprintf("%s/users?ids=%s", s.baseURL, url.QueryEscape(strings.Join(ids, ",")))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var fetched []dto.IdentityUser
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return fetched, nil
}

func identityCacheKey(id string) string {
	return "identity:user:" + id
}
