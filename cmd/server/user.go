package main

import (
	"github.com/spf13/cobra"

	"github.com/seth-walker/HRIS/internal/access"
	"github.com/seth-walker/HRIS/internal/dto"
	"github.com/seth-walker/HRIS/internal/models"
	"github.com/seth-walker/HRIS/internal/services"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}
	cmd.AddCommand(newUserCreateCmd(), newUserListCmd(), newUserToggleActiveCmd())
	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List login accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			users, err := a.services().auth.ListUsers(cmd.Context(), access.System())
			if err != nil {
				return err
			}
			return writeJSON(dto.ToUserDTOs(users))
		},
	}
}

func newUserToggleActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-active <user-id>",
		Short: "Activate or deactivate a login account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			user, err := a.services().auth.ToggleUserActive(cmd.Context(), access.System(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(dto.ToUserDTO(*user))
		},
	}
}

func newUserCreateCmd() *cobra.Command {
	var (
		email      string
		password   string
		role       string
		employeeID string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user, e.g. the first admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap()
			if err != nil {
				return err
			}
			defer a.close()

			input := services.CreateUserInput{
				Email:    email,
				Password: password,
				Role:     models.RoleName(role),
			}
			if employeeID != "" {
				input.EmployeeID = &employeeID
			}

			user, err := a.services().auth.CreateUser(cmd.Context(), access.System(), input)
			if err != nil {
				return err
			}
			return writeJSON(dto.ToUserDTO(*user))
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Initial password (required)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleEmployee), "Role: admin, hr, manager or employee")
	cmd.Flags().StringVar(&employeeID, "employee-id", "", "Employee record to link (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
