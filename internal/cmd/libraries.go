package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mohamedfathi540/RAG-001/internal/output"
)

var librariesCmd = &cobra.Command{
	Use:   "libraries",
	Short: "List scraped documentation libraries",
	RunE:  runLibraries,
}

var librariesUseCmd = &cobra.Command{
	Use:   "use <name|id>",
	Short: "Select the active library for search and chat",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibrariesUse,
}

func init() {
	librariesCmd.AddCommand(librariesUseCmd)
}

func runLibraries(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	client, err := newClient(store)
	if err != nil {
		return err
	}

	libraries, err := client.Data.Libraries(cmd.Context())
	if err != nil {
		return err
	}
	if len(libraries) == 0 {
		output.Info("no libraries found. Add one with 'fehres scrape start'.")
		return nil
	}

	active := store.ActiveProjectID()
	table := output.Table([]string{"", "ID", "NAME"})
	for _, lib := range libraries {
		marker := ""
		if lib.ID == active {
			marker = "*"
		}
		table.Append([]string{marker, strconv.Itoa(lib.ID), lib.Name})
	}
	table.Render()
	return nil
}

func runLibrariesUse(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}

	// A bare number selects by project id without a backend round trip.
	if id, err := strconv.Atoi(args[0]); err == nil {
		if err := store.SelectProject(id); err != nil {
			return err
		}
		output.Success("active project set to %d", id)
		return nil
	}

	client, err := newClient(store)
	if err != nil {
		return err
	}
	libraries, err := client.Data.Libraries(cmd.Context())
	if err != nil {
		return err
	}
	for _, lib := range libraries {
		if lib.Name == args[0] {
			if err := store.SelectLibrary(lib.Name, lib.ID); err != nil {
				return err
			}
			output.Success("active library set to %q (project %d)", lib.Name, lib.ID)
			return nil
		}
	}
	return fmt.Errorf("no library named %q", args[0])
}
