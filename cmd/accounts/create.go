package accounts

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/authgate/authgate/internal/config"
	"github.com/authgate/authgate/internal/db/bunx"
	"github.com/authgate/authgate/internal/db/models"
	"github.com/authgate/authgate/internal/repository"
)

var (
	nameFlag     string
	passwordFlag string
	domainFlag   string
	rolesInput   []string
	stdinFlag    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new login account",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate required flags
		if nameFlag == "" {
			return fmt.Errorf("--name flag is required")
		}

		password := passwordFlag
		if stdinFlag {
			// Read password from stdin
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		ctx := context.Background()
		accountRepo := repository.NewBunAccountRepository(db)
		domainRepo := repository.NewBunDomainRepository(db)
		roleRepo := repository.NewBunRoleRepository(db)

		domain, err := domainRepo.GetByCode(ctx, domainFlag)
		if err != nil {
			return fmt.Errorf("resolve domain %q: %w", domainFlag, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		account := &models.Account{
			Name:         nameFlag,
			PasswordHash: string(hash),
			DomainID:     domain.ID,
			Status:       models.StatusActive,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return fmt.Errorf("create account: %w", err)
		}

		for _, roleName := range rolesInput {
			role, err := roleRepo.GetByName(ctx, domain.ID, roleName)
			if err != nil {
				return fmt.Errorf("resolve role %q in domain %q: %w", roleName, domainFlag, err)
			}
			if err := roleRepo.BindAccount(ctx, account.ID, role.ID); err != nil {
				return fmt.Errorf("bind role %q: %w", roleName, err)
			}
		}

		fmt.Printf("Created account %q (id=%d, domain=%s, roles=%d)\n",
			account.Name, account.ID, domain.Code, len(rolesInput))
		return nil
	},
}
