package supabase

import (
	"github.com/supabase-community/supabase-go"

	"flash-designer-backend/internal/config"
)

// Client bundles the two Supabase platform clients: the anon-key client used
// for end-user auth flows and the service-role client used for privileged
// operations (writing role claims).
type Client struct {
	Anon   *supabase.Client
	Admin  *supabase.Client
	Config *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	anon, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	admin, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Anon:   anon,
		Admin:  admin,
		Config: cfg,
	}, nil
}
