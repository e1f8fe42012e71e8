package resolve

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewhall/lnr/internal/api"
	"github.com/ewhall/lnr/internal/cache"
	"github.com/ewhall/lnr/internal/exitcode"
)

// CachedUser is the shape stored in the user cache.
type CachedUser struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// UserResult is the resolved user returned to callers.
type UserResult struct {
	ID    string
	Name  string
	Email string
}

// Label returns the best human-readable label for the user.
func (u *UserResult) Label() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}

const listUsersQuery = `query ListUsers($first: Int!, $after: String) {
  users(first: $first, after: $after) {
    pageInfo {
      hasNextPage
      endCursor
    }
    nodes {
      id
      name
      displayName
      email
    }
  }
}`

// UserCacheKey returns the cache key for user data.
func UserCacheKey() cache.Key {
	return cache.NewKey("users")
}

// FetchUsers fetches all workspace members and updates the cache.
func FetchUsers(client *api.Client) ([]CachedUser, error) {
	var allUsers []CachedUser
	var cursor *string

	for {
		vars := map[string]any{"first": 100}
		if cursor != nil {
			vars["after"] = *cursor
		}

		data, err := client.Execute(listUsersQuery, vars)
		if err != nil {
			return nil, exitcode.General("fetching users", err)
		}

		var resp struct {
			Users struct {
				PageInfo struct {
					HasNextPage bool   `json:"hasNextPage"`
					EndCursor   string `json:"endCursor"`
				} `json:"pageInfo"`
				Nodes []CachedUser `json:"nodes"`
			} `json:"users"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, exitcode.General("parsing users response", err)
		}

		allUsers = append(allUsers, resp.Users.Nodes...)

		if !resp.Users.PageInfo.HasNextPage {
			break
		}
		c := resp.Users.PageInfo.EndCursor
		cursor = &c
	}

	_ = cache.Set(UserCacheKey(), allUsers)
	return allUsers, nil
}

// User resolves a single user identifier (opaque ID, name, or email) to a
// UserResult with invalidate-on-miss caching. Name matches are tried before
// email matches.
func User(client *api.Client, identifier string) (*UserResult, error) {
	if LooksLikeID(identifier) && !strings.Contains(identifier, "@") {
		return &UserResult{ID: identifier}, nil
	}

	key := UserCacheKey()

	if entries, ok := cache.Get[[]CachedUser](key); ok {
		if u, found := matchUser(entries, identifier); found {
			return u, nil
		}
	}

	entries, err := FetchUsers(client)
	if err != nil {
		return nil, err
	}

	if u, found := matchUser(entries, identifier); found {
		return u, nil
	}

	return nil, exitcode.NotFoundError(fmt.Sprintf("user %q not found", identifier))
}

// Users resolves multiple user identifiers. Identifiers that cannot be
// resolved are returned in the second slice rather than failing the whole
// batch — callers decide whether a miss is fatal.
func Users(client *api.Client, identifiers []string) ([]*UserResult, []string, error) {
	key := UserCacheKey()

	entries, ok := cache.Get[[]CachedUser](key)
	if !ok {
		var err error
		entries, err = FetchUsers(client)
		if err != nil {
			return nil, nil, err
		}
	}

	var results []*UserResult
	var notFound []string
	for _, ident := range identifiers {
		if LooksLikeID(ident) && !strings.Contains(ident, "@") {
			results = append(results, &UserResult{ID: ident})
			continue
		}
		if u, found := matchUser(entries, ident); found {
			results = append(results, u)
		} else {
			notFound = append(notFound, ident)
		}
	}

	if len(notFound) > 0 {
		// Try refreshing cache and retry the misses
		var err error
		entries, err = FetchUsers(client)
		if err != nil {
			return nil, nil, err
		}

		var stillNotFound []string
		for _, ident := range notFound {
			if u, found := matchUser(entries, ident); found {
				results = append(results, u)
			} else {
				stillNotFound = append(stillNotFound, ident)
			}
		}
		notFound = stillNotFound
	}

	return results, notFound, nil
}

// matchUser looks up a user by opaque ID, name (case-insensitive), display
// name, or email (case-insensitive). Emails are only matched when the
// identifier contains an @, so short display names never collide with
// email local parts.
func matchUser(entries []CachedUser, identifier string) (*UserResult, bool) {
	identLower := strings.ToLower(identifier)

	// Exact ID match
	for _, u := range entries {
		if u.ID == identifier {
			return buildUserResult(&u), true
		}
	}

	// Name match (case-insensitive), then display name
	for _, u := range entries {
		if strings.ToLower(u.Name) == identLower {
			return buildUserResult(&u), true
		}
	}
	for _, u := range entries {
		if strings.ToLower(u.DisplayName) == identLower {
			return buildUserResult(&u), true
		}
	}

	// Email match (case-insensitive)
	if strings.Contains(identifier, "@") {
		for _, u := range entries {
			if strings.ToLower(u.Email) == identLower {
				return buildUserResult(&u), true
			}
		}
	}

	return nil, false
}

func buildUserResult(u *CachedUser) *UserResult {
	return &UserResult{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}
