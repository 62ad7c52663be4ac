package cmd

import (
	"encoding/json"
	"log"

	"github.com/spigell/career-compass/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var careersCmd = &cobra.Command{
	Use:   "careers",
	Short: "List the career catalog after applying the configured filters",
	Run: func(cmd *cobra.Command, _ []string) {
		careers(cmd)
	},
}

func init() {
	rootCmd.AddCommand(careersCmd)

	careersCmd.Flags().Bool("by-category", false, "group the report by career category")
	careersCmd.Flags().Bool("dump", false, "dump the filtered catalog to a temporary file")

	careersCmd.Flags().StringP("search", "s", "", "keep careers whose title or description contains the term")
	careersCmd.Flags().StringP("category", "c", "", "keep careers in the given category")
	careersCmd.Flags().Int("salary-min", 0, "keep careers whose salary band reaches at least this amount")
	careersCmd.Flags().Int("salary-max", 0, "keep careers whose salary band starts at most at this amount")
	careersCmd.Flags().StringP("experience", "e", "", "keep careers matching the experience level")

	viper.BindPFlag("explore.search", careersCmd.Flags().Lookup("search"))
	viper.BindPFlag("explore.category", careersCmd.Flags().Lookup("category"))
	viper.BindPFlag("explore.salary-min", careersCmd.Flags().Lookup("salary-min"))
	viper.BindPFlag("explore.salary-max", careersCmd.Flags().Lookup("salary-max"))
	viper.BindPFlag("explore.experience", careersCmd.Flags().Lookup("experience"))
}

func careers(cmd *cobra.Command) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	catalog, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading the career catalog", zap.Error(err))
	}

	filtered, err := filterCatalog(catalog, config.Explore, logger)
	if err != nil {
		logger.Fatal("filtering the career catalog", zap.Error(err))
	}

	if filtered.Len() == 0 {
		logger.Info("no careers left after filters")
		return
	}

	if cmd.Flag("by-category").Value.String() == "true" {
		pretty, _ := json.MarshalIndent(filtered.ReportByCategory(), "", "  ")
		logger.Info(string(pretty), zap.Int("careers count", filtered.Len()))
	} else {
		for _, c := range filtered.Items {
			logger.Info(c.Title,
				zap.String("category", c.Category),
				zap.String("salary", c.SalaryRange()),
				zap.String("growth", c.GrowthOutlook),
				zap.String("demand", c.DemandLevel),
			)
		}
	}

	if cmd.Flag("dump").Value.String() == "true" {
		filename, err := filtered.DumpToTmpFile()
		if err != nil {
			logger.Fatal("dumping the catalog to file", zap.Error(err))
		}

		logger.Info("dumping the catalog to file", zap.String("filename", filename))
	}
}
