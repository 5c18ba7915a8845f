//nolint:whitespace // can't make both editor and linter happy
package scoring

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openregatta/regatta-service-manager-go/log"
	"github.com/openregatta/regatta-service-manager-go/pkg/cmd/cmdutil"
	"github.com/openregatta/regatta-service-manager-go/pkg/config"
	scoringtmplrepos "github.com/openregatta/regatta-service-manager-go/pkg/repository/scoringtemplate"
	"github.com/openregatta/regatta-service-manager-go/pkg/scoring"
)

var templateName string

func NewScoringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scoring",
		Short: "commands around the scoring engine",
	}
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newImportCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <raceId>",
		Short: "recomputes the point postings of a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			return runScoring(cmd.Context(), id)
		},
	}
	cmd.Flags().StringVar(&templateName, "template", "",
		"name of the scoring template (stored in the database)")
	cmd.Flags().StringVar(&config.ScoringConfig, "scoring-config", "",
		"path to a scoring template file (overrides --template)")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "imports a scoring template file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return importTemplate(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&config.ScoringConfig, "scoring-config", "",
		"path to the scoring template file")
	//nolint:errcheck // flag is defined above
	cmd.MarkFlagRequired("scoring-config")
	return cmd
}

func runScoring(ctx context.Context, raceID int) error {
	pool := cmdutil.ConnectDB()
	defer pool.Close()

	var provider scoring.TemplateProvider
	switch {
	case config.ScoringConfig != "":
		tmpl, err := scoring.LoadTemplateFile(config.ScoringConfig)
		if err != nil {
			return err
		}
		provider = scoring.NewStaticProvider(tmpl)
		if templateName == "" {
			templateName = tmpl.Name
		}
	case templateName == "":
		return fmt.Errorf("either --template or --scoring-config is required")
	default:
		st, err := scoringtmplrepos.LoadByName(ctx, pool, templateName)
		if err != nil {
			return fmt.Errorf("load template %q: %w", templateName, err)
		}
		provider = scoring.NewStaticProvider(
			scoring.FromModel(st, scoring.DefaultEligibility()))
	}

	res, err := scoring.NewEngine(pool, provider).ScoreRace(ctx, raceID, templateName)
	if err != nil {
		return err
	}
	fmt.Printf("race %d: %d postings\n\n", raceID, len(res.Postings))
	for _, s := range res.Standings {
		fmt.Printf("%3d. %-25s %s\n", s.Rank, s.ClubName, s.TotalPoints.String())
	}
	return nil
}

func importTemplate(ctx context.Context) error {
	tmpl, err := scoring.LoadTemplateFile(config.ScoringConfig)
	if err != nil {
		return err
	}
	pool := cmdutil.ConnectDB()
	defer pool.Close()
	st := tmpl.ToModel()
	if err := scoringtmplrepos.Upsert(ctx, pool, st); err != nil {
		return err
	}
	log.Info("scoring template imported",
		log.String("name", st.Name), log.Int("id", st.ID))
	return nil
}
