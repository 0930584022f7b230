// seed.go implements "supportdesk seed", which prints the demo data set.

package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"supportdesk/models"
	"supportdesk/storage"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Print the demo data set as JSON",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

type demoData struct {
	Customers     []models.Customer     `json:"customers"`
	Conversations []models.Conversation `json:"conversations"`
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store := storage.NewMemStore()

	customers, err := store.ListCustomers(ctx)
	if err != nil {
		return fmt.Errorf("listing customers: %w", err)
	}
	convos, err := store.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("listing conversations: %w", err)
	}

	data, err := json.MarshalIndent(demoData{Customers: customers, Conversations: convos}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding demo data: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
