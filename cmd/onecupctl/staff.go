package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	userstore "github.com/onecuponetree/onecup/internal/app/store/users"
	"github.com/onecuponetree/onecup/internal/domain/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var staffName string

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage staff accounts",
}

var staffCreateCmd = &cobra.Command{
	Use:   "create [email]",
	Short: "Create a staff account",
	Long: `Creates an active staff account. The password is read from the first
line of stdin so it stays out of shell history:

  echo "$PASSWORD" | onecupctl staff create ops@onecuponetree.org --name "Ops"`,
	Args: cobra.ExactArgs(1),
	RunE: runStaffCreate,
}

var staffGrantCmd = &cobra.Command{
	Use:   "grant [email]",
	Short: "Give an existing account staff access",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStaff(cmd, args[0], true)
	},
}

var staffRevokeCmd = &cobra.Command{
	Use:   "revoke [email]",
	Short: "Remove staff access from an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStaff(cmd, args[0], false)
	},
}

func init() {
	staffCreateCmd.Flags().StringVar(&staffName, "name", "", "full name")
}

func runStaffCreate(cmd *cobra.Command, args []string) error {
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return errors.New("password must be given on stdin")
	}
	password := strings.TrimRight(line, "\r\n")

	ctx, cancel := opContext(cmd)
	defer cancel()

	u, err := userstore.New(db).Create(ctx, models.User{
		FullName: staffName,
		Email:    args[0],
		IsStaff:  true,
	}, password)
	if err != nil {
		return err
	}
	logger.Info("staff account created", zap.String("email", u.Email))
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", u.Email)
	return nil
}

func setStaff(cmd *cobra.Command, email string, staff bool) error {
	ctx, cancel := opContext(cmd)
	defer cancel()

	if err := userstore.New(db).SetStaff(ctx, email, staff); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("no account for %s", email)
		}
		return err
	}
	verb := "granted"
	if !staff {
		verb = "revoked"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s staff for %s\n", verb, email)
	return nil
}
