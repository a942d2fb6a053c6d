// ABOUTME: Persona catalog fetch from the backend.
// ABOUTME: Returns persona identities keyed by their stable ids.

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/2389/council-client/internal/council"
)

// ListPersonas returns the server's persona catalog keyed by persona id.
func (c *Client) ListPersonas(ctx context.Context) (map[string]council.Persona, error) {
	var personas map[string]council.Persona
	if err := c.doJSON(ctx, http.MethodGet, "/personas", nil, &personas); err != nil {
		return nil, fmt.Errorf("listing personas: %w", err)
	}
	return personas, nil
}
