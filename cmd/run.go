package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spigell/career-compass/internal/ai"
	"github.com/spigell/career-compass/internal/ai/gemini"
	"github.com/spigell/career-compass/internal/assessment"
	"github.com/spigell/career-compass/internal/career"
	"github.com/spigell/career-compass/internal/filtering"
	"github.com/spigell/career-compass/internal/logger"
	"github.com/spigell/career-compass/internal/profile"
	"github.com/spigell/career-compass/internal/recommend"
	"github.com/spigell/career-compass/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptBack            = "back"
	PromptRecommendations = "Show career recommendations"
	PromptExplore         = "Explore the career catalog"
	PromptRoadmap         = "Generate a career roadmap"
	PromptDumpToFile      = "Dump recommendations to file"
	PromptExit            = "Exit"

	defaultUserName = "explorer"
	topMatchesShown = 5
)

var errExit = errors.New("exit requested")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive assessment and recommendation session",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("kind", "k", "", "start directly with the given assessment kind (interest, personality or skills)")
	runCmd.Flags().StringP("name", "n", "", "name used to address you in the session")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the career-compass", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	bank, err := loadBank(config)
	if err != nil {
		logger.Fatal("loading the question bank", zap.Error(err))
	}

	catalog, err := loadCatalog(config)
	if err != nil {
		logger.Fatal("loading the career catalog", zap.Error(err))
	}

	logger.Info("loaded the career catalog", zap.Int("count", catalog.Len()))

	weights, err := resolveWeights(config)
	if err != nil {
		logger.Fatal("resolving assessment weights", zap.Error(err))
	}

	user := profile.New(resolveUserName(cmd, config))

	advisor, err := prepareAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("career roadmaps are unavailable", zap.Error(err))
	}

	if kind := cmd.Flag("kind").Value.String(); kind != "" {
		parsed, err := assessment.ParseKind(kind)
		if err != nil {
			logger.Fatal("parsing the kind flag", zap.Error(err))
		}

		if err := startSession(user, bank, parsed, logger); err != nil {
			logger.Fatal("running the assessment", zap.Error(err))
		}
	}

	for {
		action, err := mainMenu(user, bank, advisor)
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, user, bank, catalog, weights, advisor, config, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

// mainMenu renders the top-level menu and returns the chosen action.
func mainMenu(user *profile.Profile, bank *assessment.Bank, advisor ai.Advisor) (string, error) {
	items := make([]string, 0)

	for _, kind := range bank.Kinds() {
		items = append(items, assessmentMenuItem(user, kind))
	}

	items = append(items, PromptRecommendations, PromptExplore)

	if advisor != nil {
		items = append(items, PromptRoadmap)
	}

	items = append(items, PromptDumpToFile, PromptExit)

	menu := promptui.Select{
		Label: fmt.Sprintf("What would you like to do, %s?", user.Name),
		Items: items,
		Size:  len(items),
	}

	_, action, err := menu.Run()

	return action, err
}

func assessmentMenuItem(user *profile.Profile, kind assessment.Kind) string {
	state := ""
	if user.Completed(kind) {
		state = " (completed)"
	} else if session, ok := user.Session(kind); ok {
		state = fmt.Sprintf(" (in progress, %.0f%%)", session.Progress()*100)
	}

	return fmt.Sprintf("Take the %s assessment%s", kind, state)
}

func handleAction(ctx context.Context, action string, user *profile.Profile, bank *assessment.Bank, catalog *career.Catalog, weights recommend.Weights, advisor ai.Advisor, config *Config, logger *zap.Logger) error {
	switch action {
	case PromptRecommendations:
		return showResults(user, catalog, weights, logger)
	case PromptExplore:
		return explore(catalog, config.Explore, logger)
	case PromptRoadmap:
		return roadmap(ctx, user, catalog, weights, advisor, logger)
	case PromptDumpToFile:
		return dumpRanking(user, catalog, weights, logger)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		for _, kind := range bank.Kinds() {
			if strings.HasPrefix(action, fmt.Sprintf("Take the %s assessment", kind)) {
				return startSession(user, bank, kind, logger)
			}
		}

		return fmt.Errorf("invalid action: %s", action)
	}
}

// startSession resumes a paused session for the kind, or creates one, and
// walks it to completion. A completed assessment requires an explicit retake
// confirmation before the stored results are discarded.
func startSession(user *profile.Profile, bank *assessment.Bank, kind assessment.Kind, logger *zap.Logger) error {
	session, err := user.ResumeOrStart(bank, kind)
	if errors.Is(err, assessment.ErrAlreadyCompleted) {
		confirm := promptui.Prompt{
			Label:     fmt.Sprintf("The %s assessment is already completed. Retake it and discard the results", kind),
			IsConfirm: true,
		}

		if _, err := confirm.Run(); err != nil {
			logger.Info("keeping the existing results", zap.String("kind", kind.String()))
			return nil
		}

		session, err = user.StartAssessment(bank, kind, true)
		if err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	completion, err := runSession(session)
	if err != nil {
		return err
	}

	if completion == nil {
		logger.Info("assessment paused",
			zap.String("kind", kind.String()),
			zap.Float64("progress", session.Progress()),
		)
		return nil
	}

	vector, err := user.CompleteAssessment(completion)
	if err != nil {
		return err
	}

	logger.Info("assessment completed",
		zap.String("kind", kind.String()),
		zap.Int("questions", len(completion.Questions)),
		zap.Int("traits", len(vector)),
	)

	for _, name := range vector.Names() {
		logger.Info("trait score", zap.String("trait", name), zap.Float64("score", vector[name]))
	}

	return nil
}

// runSession walks the session question by question. Answering "back" on any
// question after the first returns to the previous one without losing the
// stored answer. A nil completion means the user bailed out mid-session.
func runSession(session *assessment.Session) (*assessment.Completion, error) {
	for {
		question, err := session.CurrentQuestion()
		if errors.Is(err, assessment.ErrSessionComplete) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		answer, err := askQuestion(session, question)
		if errors.Is(err, promptui.ErrInterrupt) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		if answer == PromptBack {
			if err := session.Retreat(); err != nil {
				return nil, err
			}
			continue
		}

		if err := submitAnswer(session, question, answer); err != nil {
			return nil, err
		}

		completion, err := session.Advance()
		if err != nil {
			return nil, err
		}

		if completion != nil {
			return completion, nil
		}
	}
}

func askQuestion(session *assessment.Session, question *assessment.Question) (string, error) {
	label := fmt.Sprintf("[%d/%d] %s", session.Index()+1, session.Len(), question.Prompt)

	switch question.Kind {
	case assessment.QuestionChoice:
		items := question.OptionLabels()
		if session.Index() > 0 {
			items = append(items, PromptBack)
		}

		menu := promptui.Select{
			Label: label,
			Items: items,
			Size:  len(items),
		}

		_, answer, err := menu.Run()

		return answer, err
	case assessment.QuestionScale:
		prompt := promptui.Prompt{
			Label:    fmt.Sprintf("%s (%d-%d, %s)", label, question.Min, question.Max, question.Label),
			Validate: scaleValidator(session, question),
		}

		return prompt.Run()
	default:
		return "", fmt.Errorf("unsupported question kind: %s", question.Kind)
	}
}

func scaleValidator(session *assessment.Session, question *assessment.Question) func(string) error {
	return func(input string) error {
		if input == PromptBack && session.Index() > 0 {
			return nil
		}

		rating, err := strconv.Atoi(strings.TrimSpace(input))
		if err != nil {
			return fmt.Errorf("enter a whole number between %d and %d", question.Min, question.Max)
		}

		if rating < question.Min || rating > question.Max {
			return fmt.Errorf("rating must be between %d and %d", question.Min, question.Max)
		}

		return nil
	}
}

func submitAnswer(session *assessment.Session, question *assessment.Question, answer string) error {
	if question.Kind == assessment.QuestionScale {
		rating, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			return fmt.Errorf("parsing a validated rating: %w", err)
		}

		return session.SubmitAnswer(rating)
	}

	return session.SubmitAnswer(answer)
}

// showResults scores the completed assessments against the catalog and
// prints the top matches.
func showResults(user *profile.Profile, catalog *career.Catalog, weights recommend.Weights, logger *zap.Logger) error {
	matches, err := user.Recommend(catalog, weights)
	if errors.Is(err, recommend.ErrNoAssessmentData) {
		logger.Info("complete at least one assessment to see recommendations")
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("recommendations are based on completed assessments",
		zap.Any("completed", user.CompletedKinds()),
	)

	shown := matches
	if len(shown) > topMatchesShown {
		shown = shown[:topMatchesShown]
	}

	for i, match := range shown {
		c := catalog.FindByID(match.CareerID)
		if c == nil {
			return fmt.Errorf("ranked career %d is missing from the catalog", match.CareerID)
		}

		contributing := make([]string, 0, len(match.ContributingTraits))
		for _, tc := range match.ContributingTraits {
			contributing = append(contributing, fmt.Sprintf("%s (%.0f)", tc.Trait, tc.Contribution))
		}

		logger.Info(fmt.Sprintf("#%d %s", i+1, match.Title),
			zap.Float64("fit_score", match.Score),
			zap.String("category", c.Category),
			zap.String("salary", c.SalaryRange()),
			zap.String("growth", c.GrowthOutlook),
			zap.String("top_traits", strings.Join(contributing, ", ")),
		)
	}

	return nil
}

// explore runs the configured filters over the catalog and lets the user
// inspect individual careers.
func explore(catalog *career.Catalog, config *ExploreConfig, logger *zap.Logger) error {
	filtered, err := filterCatalog(catalog, config, logger)
	if err != nil {
		return err
	}

	if filtered.Len() == 0 {
		logger.Info("no careers left after filters")
		return nil
	}

	for {
		menu := promptui.Select{
			Label: fmt.Sprintf("Choose a career to inspect (%d match the filters)", filtered.Len()),
			Items: append(filtered.Titles(), PromptBack),
			Size:  filtered.Len() + 1,
		}

		_, selected, err := menu.Run()
		if err != nil {
			return err
		}

		if selected == PromptBack {
			return nil
		}

		showCareer(filtered, selected, logger)
	}
}

func showCareer(catalog *career.Catalog, title string, logger *zap.Logger) {
	for _, c := range catalog.Items {
		if c.Title != title {
			continue
		}

		logger.Info(c.Title,
			zap.String("category", c.Category),
			zap.String("description", c.Description),
			zap.String("salary", c.SalaryRange()),
			zap.String("growth", c.GrowthOutlook),
			zap.String("experience", c.Experience),
			zap.String("education", c.Education),
			zap.String("environment", c.WorkEnvironment),
			zap.Float64("job_satisfaction", c.JobSatisfaction),
			zap.String("demand", c.DemandLevel),
			zap.String("skills", strings.Join(c.Skills, ", ")),
			zap.String("courses", strings.Join(c.Courses, ", ")),
			zap.String("companies", strings.Join(c.Companies, ", ")),
		)

		return
	}
}

// roadmap combines the trait vectors and asks the advisor for a plan toward
// the top recommended career.
func roadmap(ctx context.Context, user *profile.Profile, catalog *career.Catalog, weights recommend.Weights, advisor ai.Advisor, logger *zap.Logger) error {
	if advisor == nil {
		logger.Info("no advisor is configured", zap.String("hint", "enable ai in the configuration file"))
		return nil
	}

	matches, err := user.Recommend(catalog, weights)
	if errors.Is(err, recommend.ErrNoAssessmentData) {
		logger.Info("complete at least one assessment to generate a roadmap")
		return nil
	}
	if err != nil {
		return err
	}

	combined, err := recommend.Combine(user.Vectors(), weights)
	if err != nil {
		return err
	}

	logger.Info("generating a roadmap", zap.String("career", matches[0].Title))

	// A failed generation must not take the session down with it.
	plan, err := advisor.Plan(ctx, combined, matches)
	if err != nil {
		logger.Warn("generating a roadmap failed", zap.Error(err))
		return nil
	}

	logger.Info("career roadmap", zap.String("career", plan.Career))
	for _, phase := range plan.Phases {
		logger.Info(phase.Name, zap.Strings("tasks", phase.Tasks))
	}

	return nil
}

func dumpRanking(user *profile.Profile, catalog *career.Catalog, weights recommend.Weights, logger *zap.Logger) error {
	matches, err := user.Recommend(catalog, weights)
	if errors.Is(err, recommend.ErrNoAssessmentData) {
		logger.Info("complete at least one assessment before dumping recommendations")
		return nil
	}
	if err != nil {
		return err
	}

	file, err := os.CreateTemp("", "career-compass-ranking-*.json")
	if err != nil {
		return fmt.Errorf("dump ranking to file: %w", err)
	}
	defer file.Close()

	pretty, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("dump ranking to file: %w", err)
	}

	if _, err := file.Write(pretty); err != nil {
		return fmt.Errorf("dump ranking to file: %w", err)
	}

	logger.Info("dumping recommendations to file", zap.String("filename", file.Name()))

	return nil
}

func filterCatalog(catalog *career.Catalog, config *ExploreConfig, logger *zap.Logger) (*career.Catalog, error) {
	cfg := &filtering.Config{}
	if config != nil {
		cfg = &filtering.Config{
			Search:     config.Search,
			Category:   config.Category,
			SalaryMin:  config.SalaryMin,
			SalaryMax:  config.SalaryMax,
			Experience: config.Experience,
		}
	}

	deps := filtering.Deps{Logger: logger}

	steps := filtering.Explorer()
	if config != nil {
		for _, name := range config.DisabledFilters {
			filtering.DisableByName(steps, name, "disabled via configuration")
		}
	}

	filtered, err := filtering.Run(cfg, deps, steps, catalog)
	if err != nil {
		return nil, fmt.Errorf("filtering failed: %w", err)
	}

	return filtered, nil
}

func resolveUserName(cmd *cobra.Command, config *Config) string {
	if name := cmd.Flag("name").Value.String(); name != "" {
		return name
	}

	if config.User != "" {
		return config.User
	}

	return defaultUserName
}

func prepareAdvisor(ctx context.Context, config *AIConfig, log *zap.Logger) (ai.Advisor, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	if config.Gemini == nil {
		config.Gemini = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model)
	if err != nil {
		return nil, err
	}

	plannerLogger := logger.WithAdvisorFields(log, "gemini", generator.Model())

	return gemini.NewPlanner(generator, plannerLogger, config.Gemini.MaxRetries, config.Gemini.MaxLogLength), nil
}
