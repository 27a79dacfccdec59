package main

import (
	"fmt"

	"github.com/gdugdh24/coparent-backend/internal/usecase/admin"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRolesCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Grant, revoke or check identity roles",
	}

	run := func(fn func(cmd *cobra.Command, uc *admin.AdminUseCase, userID uuid.UUID, role string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			cfg, err := env.config()
			if err != nil {
				return err
			}
			repos, closer, err := env.openRepos(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}
			return fn(cmd, admin.NewAdminUseCase(repos.Profiles, repos.Roles), userID, args[1])
		}
	}

	grant := &cobra.Command{
		Use:   "grant <user-id> <role>",
		Short: "Grant a role",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, uc *admin.AdminUseCase, userID uuid.UUID, role string) error {
			if err := uc.GrantRole(cmd.Context(), userID, role); err != nil {
				return err
			}
			cmd.Printf("granted %s to %s\n", role, userID)
			return nil
		}),
	}

	revoke := &cobra.Command{
		Use:   "revoke <user-id> <role>",
		Short: "Revoke a role",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, uc *admin.AdminUseCase, userID uuid.UUID, role string) error {
			if err := uc.RevokeRole(cmd.Context(), userID, role); err != nil {
				return err
			}
			cmd.Printf("revoked %s from %s\n", role, userID)
			return nil
		}),
	}

	check := &cobra.Command{
		Use:   "check <user-id> <role>",
		Short: "Report whether an identity holds a role",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(cmd *cobra.Command, uc *admin.AdminUseCase, userID uuid.UUID, role string) error {
			ok, err := uc.HasRole(cmd.Context(), userID, role)
			if err != nil {
				return err
			}
			cmd.Printf("%s has %s: %t\n", userID, role, ok)
			return nil
		}),
	}

	cmd.AddCommand(grant, revoke, check)
	return cmd
}
