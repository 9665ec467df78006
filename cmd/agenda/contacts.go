package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dfryer1193/agenda/contacts/domain"
	"github.com/spf13/cobra"
)

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid contact id %q", arg)
	}
	return id, nil
}

func printContact(w io.Writer, c *domain.Contact) {
	fmt.Fprintf(w, "ID:      %d\n", c.ID)
	fmt.Fprintf(w, "Name:    %s\n", c.Name)
	fmt.Fprintf(w, "Surname: %s\n", c.Surname)
	fmt.Fprintf(w, "Phone:   %s\n", c.Phone)
	fmt.Fprintf(w, "Email:   %s\n", c.Email)
	fmt.Fprintf(w, "Address: %s\n", c.Address)
	fmt.Fprintf(w, "Image:   %s\n", c.ImageRef)
}

func printSummaries(w io.Writer, summaries []domain.Summary) {
	for _, s := range summaries {
		fmt.Fprintf(w, "%d\t%s %s\n", s.ID, s.Name, s.Surname)
	}
}

func addFieldFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Given name.")
	cmd.Flags().String("surname", "", "Family name.")
	cmd.Flags().String("phone", "", "Phone number.")
	cmd.Flags().String("email", "", "Email address.")
	cmd.Flags().String("address", "", "Postal address.")
	cmd.Flags().String("image", "", "Image file to import as the contact's picture (.jpg, .jpeg or .png).")
}

// applyFieldFlags overwrites the fields of f whose flags were set on the command line.
func applyFieldFlags(cmd *cobra.Command, f domain.Fields) domain.Fields {
	targets := map[string]*string{
		"name":    &f.Name,
		"surname": &f.Surname,
		"phone":   &f.Phone,
		"email":   &f.Email,
		"address": &f.Address,
	}
	for flag, target := range targets {
		if cmd.Flags().Changed(flag) {
			*target, _ = cmd.Flags().GetString(flag)
		}
	}
	return f
}

func newListCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			summaries, err := contacts.ListContacts(cmd.Context())
			if err != nil {
				return err
			}

			printSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
}

func newShowCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show a contact, or the first one when no id is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			var c *domain.Contact
			if len(args) == 0 {
				c, err = contacts.FirstContact(cmd.Context())
			} else {
				id, parseErr := parseID(args[0])
				if parseErr != nil {
					return parseErr
				}
				c, err = contacts.GetContact(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			printContact(cmd.OutOrStdout(), c)
			return nil
		},
	}
}

func newAddCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			image, _ := cmd.Flags().GetString("image")
			id, err := contacts.CreateContact(cmd.Context(), applyFieldFlags(cmd, domain.Fields{}), image)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	addFieldFlags(cmd)

	return cmd
}

func newUpdateCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact; fields not given keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			session, err := contacts.BeginEdit(cmd.Context(), id)
			if err != nil {
				return err
			}

			image, _ := cmd.Flags().GetString("image")
			submitErr := session.Submit(cmd.Context(), applyFieldFlags(cmd, session.Contact().Fields), image)

			view, err := session.Close(cmd.Context())
			if submitErr != nil {
				return submitErr
			}
			if err != nil {
				return err
			}

			if view.Contact != nil {
				printContact(cmd.OutOrStdout(), view.Contact)
			}
			return nil
		},
	}
	addFieldFlags(cmd)

	return cmd
}

func newDeleteCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact and its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			res, err := contacts.DeleteContact(cmd.Context(), id)
			if err != nil {
				return err
			}

			if res.ReclaimErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: contact deleted but its image was kept: %v\n", res.ReclaimErr)
				fmt.Fprintln(cmd.ErrOrStderr(), "run 'agenda gc' to retry")
			}
			return nil
		},
	}
}

func newGCCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove managed images no contact references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			res, err := contacts.ReclaimOrphans(cmd.Context())
			if err != nil {
				return err
			}

			for _, path := range res.Reclaimed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", path)
			}
			for path, reclaimErr := range res.Failed {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", path, reclaimErr)
			}
			if len(res.Failed) > 0 {
				return fmt.Errorf("%d images could not be removed", len(res.Failed))
			}
			return nil
		},
	}
}

func newExportCmd(env *environment) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every contact as vCard 4.0",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			contacts, err := env.open(cmd)
			if err != nil {
				return err
			}
			defer env.close()

			w := cmd.OutOrStdout()
			if out, _ := cmd.Flags().GetString("output"); out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := contacts.ExportVCards(cmd.Context(), w)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d contacts\n", n)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "-", "File to write; - writes to stdout.")

	return cmd
}
