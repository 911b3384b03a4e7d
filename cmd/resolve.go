package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/skiptrace-cli/internal/model"
	"github.com/sells-group/skiptrace-cli/internal/name"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single person and print the match as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		q := queryFromFlags(cmd)
		if !q.Eligible() {
			return eris.New("resolve: --first, --last and --mailing-address or --property-address are required")
		}

		cascade, _ := cmd.Flags().GetString("cascade")
		env, err := initResolver(ctx, cascade)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Resolver.Resolve(ctx, q)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close() //nolint:errcheck
		return enc.Encode(result)
	},
}

func queryFromFlags(cmd *cobra.Command) model.Query {
	str := func(flag string) string {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	return normalizeQuery(model.Query{
		FirstName:  str("first"),
		MiddleName: str("middle"),
		LastName:   str("last"),
		Property: model.PostalAddress{
			Address: str("property-address"),
			City:    str("property-city"),
			State:   str("property-state"),
			Zip:     str("property-zip"),
		},
		Mailing: model.PostalAddress{
			Address: str("mailing-address"),
			City:    str("mailing-city"),
			State:   str("mailing-state"),
			Zip:     str("mailing-zip"),
		},
	})
}

// normalizeQuery applies the same name and zip cleanup as the input loader.
func normalizeQuery(q model.Query) model.Query {
	q.FirstName = name.Normalize(q.FirstName)
	q.MiddleName = name.Normalize(q.MiddleName)
	q.LastName = name.Normalize(q.LastName)
	q.Property.Zip = model.NormalizeZip(q.Property.Zip)
	q.Mailing.Zip = model.NormalizeZip(q.Mailing.Zip)
	return q
}

func init() {
	f := resolveCmd.Flags()
	f.String("first", "", "first name")
	f.String("middle", "", "middle name")
	f.String("last", "", "last name")
	for _, group := range []string{"property", "mailing"} {
		f.String(group+"-address", "", group+" street address")
		f.String(group+"-city", "", group+" city")
		f.String(group+"-state", "", group+" state")
		f.String(group+"-zip", "", group+" zip code")
	}
	f.String("cascade", "", "cascade mode: legacy or escalate (default from config)")
	rootCmd.AddCommand(resolveCmd)
}
