package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/solatis/nexusgate/internal/core/auth"
	"github.com/solatis/nexusgate/internal/core/config"
)

var signCmd = &cobra.Command{
	Use:   "sign [file]",
	Short: "Print the webhook signature header for a request body",
	Long: `Signs a request body (read from file, or stdin when omitted) with the
secret configured for --source and prints the header to send with it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSign,
}

func init() {
	rootCmd.AddCommand(signCmd)
	signCmd.Flags().String("source", "nexus", "webhook source whose secret signs the body")
}

func runSign(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	body, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	secrets, err := config.WebhookSecrets()
	if err != nil {
		return fmt.Errorf("failed to load webhook secrets: %w", err)
	}
	signature, err := auth.NewVerifier(secrets).Sign(source, body)
	if err != nil {
		return fmt.Errorf("%w (set NG_WEBHOOK_SECRET_<SOURCE>)", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", auth.SignatureHeader(source), signature)
	return nil
}
