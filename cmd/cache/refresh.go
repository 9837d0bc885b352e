package cache

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/authgate/authgate/internal/config"
)

var serverURLFlag string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Rebuild the server's permission cache",
	Long: `Asks a running authgate server to rebuild its public permission snapshot
and drop its per-account permission cache. Use this after changing permission
data out of band instead of waiting for the periodic refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseURL := serverURLFlag
		if baseURL == "" {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			addr := cfg.ServerAddr
			if strings.HasPrefix(addr, ":") {
				addr = "localhost" + addr
			}
			baseURL = "http://" + addr
		}
		baseURL = strings.TrimRight(baseURL, "/")

		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Post(baseURL+"/admin/cache/refresh", "application/json", nil)
		if err != nil {
			return fmt.Errorf("refresh request to %s failed: %w", baseURL, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("server returned %s", resp.Status)
		}

		var body struct {
			Version int `json:"version"`
			Public  int `json:"public"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("failed to decode refresh response: %w", err)
		}

		fmt.Printf("Cache refreshed (version=%d, public=%d)\n", body.Version, body.Public)
		return nil
	},
}
