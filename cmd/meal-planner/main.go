package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/config"
	"family-meal-planner/internal/database"
	"family-meal-planner/internal/logging"
	"family-meal-planner/internal/share"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.NewDB(cfg.DBPath, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	var signer *share.Signer
	if cfg.ShareTokenSecret != "" {
		signer, err = share.NewSigner(cfg.ShareTokenSecret, cfg.ShareTokenTTL, nil)
		if err != nil {
			logger.Fatal("failed to initialize share signer", zap.Error(err))
		}
	}

	application := app.NewApp(cfg, logger, db, signer)

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, logger, application, os.Args[2:])
	case "import-catalog":
		importCmd := flag.NewFlagSet("import-catalog", flag.ExitOnError)
		dir := importCmd.String("dir", cfg.CatalogDir, "Directory of recipe JSON files")
		importCmd.Parse(os.Args[2:])

		n, err := application.ImportCatalog(ctx, *dir)
		if err != nil {
			logger.Fatal("catalog import failed", zap.String("dir", *dir), zap.Error(err))
		}
		fmt.Printf("Imported %d recipes from %s.\n", n, *dir)
	case "export-catalog":
		exportCmd := flag.NewFlagSet("export-catalog", flag.ExitOnError)
		dir := exportCmd.String("dir", cfg.CatalogDir, "Directory to write recipe JSON files to")
		exportCmd.Parse(os.Args[2:])

		if err := application.LoadCatalog(ctx); err != nil {
			logger.Fatal("failed to load catalog", zap.Error(err))
		}
		n, err := application.ExportCatalog(ctx, *dir)
		if err != nil {
			logger.Fatal("catalog export failed", zap.String("dir", *dir), zap.Error(err))
		}
		fmt.Printf("Exported %d recipes to %s.\n", n, *dir)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := application.CleanupMetrics(ctx, *days)
		if err != nil {
			logger.Fatal("cleanup failed", zap.Error(err))
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, logger *zap.Logger, application *app.App, args []string) {
	req, user, err := parsePlanFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		logger.Fatal("invalid plan arguments", zap.Strings("args", args), zap.Error(err))
	}

	if err := application.LoadCatalog(ctx); err != nil {
		logger.Fatal("failed to load catalog", zap.Error(err))
	}
	res, err := application.GenerateMealPlan(ctx, user, req)
	if err != nil {
		logger.Fatal("plan generation failed", zap.String("user", user), zap.Error(err))
	}
	printPlan(os.Stdout, res)
}

// parsePlanFlags turns the plan subcommand flags into a request and the user
// ID the plan is stored under. Range checks happen later in Resolve.
func parsePlanFlags(args []string) (app.PlanRequest, string, error) {
	planCmd := flag.NewFlagSet("plan", flag.ContinueOnError)
	days := planCmd.Int("days", 0, "Number of days to plan (default from config)")
	calories := planCmd.Float64("calories", 0, "Daily calorie limit per person (default from config)")
	family := planCmd.Int("family", 0, "Family size (default from config)")
	budget := planCmd.Float64("budget", 0, "Daily budget in dollars, 0 for none")
	diet := planCmd.String("diet", "", "Comma-separated dietary restrictions, e.g. vegetarian,gluten-free")
	kids := planCmd.String("kids", "", "Kid-friendly recipes only: yes or no (default from config)")
	user := planCmd.String("user", "cli", "User ID the plan is stored under")
	if err := planCmd.Parse(args); err != nil {
		return app.PlanRequest{}, "", err
	}

	req := app.PlanRequest{
		Days:         *days,
		CalorieLimit: *calories,
		FamilySize:   *family,
	}
	if *budget != 0 {
		req.DailyBudget = budget
	}
	for _, tag := range strings.Split(*diet, ",") {
		if tag = strings.TrimSpace(strings.ToLower(tag)); tag != "" {
			req.DietaryRestrictions = append(req.DietaryRestrictions, tag)
		}
	}
	switch strings.ToLower(*kids) {
	case "":
	case "yes", "true":
		v := true
		req.KidFriendlyOnly = &v
	case "no", "false":
		v := false
		req.KidFriendlyOnly = &v
	default:
		return app.PlanRequest{}, "", fmt.Errorf("invalid -kids value %q: use yes or no", *kids)
	}
	return req, *user, nil
}

func printUsage() {
	fmt.Println("Usage: meal-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a meal plan and shopping list")
	fmt.Println("  import-catalog     Load recipe JSON files into the database")
	fmt.Println("  export-catalog     Write the database catalog out as recipe JSON files")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
