// Command cloudy-intel starts a design run and prints the architecture report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"cloudy-intel/internal/config"
	"cloudy-intel/internal/report"
	"cloudy-intel/internal/temporal"
)

func main() {
	problem := flag.String("problem", "", "Architecture problem statement (required)")
	provider := flag.String("provider", "", "Cloud provider: aws or azure (default from config)")
	iterations := flag.Int("iterations", 0, "Max regeneration iterations (default from config)")
	session := flag.String("session", "", "Session ID (default: generated)")
	configPath := flag.String("config", "", "Config file path (default "+config.DefaultConfigPath+" when present)")
	timeout := flag.Duration("timeout", 30*time.Minute, "Overall run timeout")
	flag.Parse()

	if strings.TrimSpace(*problem) == "" {
		log.Fatalln("❌ -problem is required")
	}

	cfg, err := config.Load(config.ResolvePath(*configPath))
	if err != nil {
		log.Fatalln("❌ Failed to load config:", err)
	}
	if *provider == "" {
		*provider = cfg.Pipeline.CloudProvider
	}
	if *iterations <= 0 {
		*iterations = cfg.Pipeline.MaxIterations
	}

	sessionID := *session
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	req := temporal.DesignRequest{
		Problem:       *problem,
		CloudProvider: *provider,
		SessionID:     sessionID,
		MaxIterations: *iterations,
	}
	if err := req.Validate(); err != nil {
		log.Fatalln("❌ Invalid request:", err)
	}

	// Connect to Temporal server
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalln("❌ Unable to connect to Temporal server:", err)
	}
	defer c.Close()

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("🚀 CloudyIntel Design Run")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Problem:        %s\n", *problem)
	fmt.Printf("Cloud Provider: %s\n", strings.ToUpper(*provider))
	fmt.Printf("Max Iterations: %d\n", *iterations)
	fmt.Printf("Session:        %s\n", sessionID)
	fmt.Println(strings.Repeat("=", 60) + "\n")

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	fmt.Println("📋 Starting design workflow...")
	workflowRun, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        sessionID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}, temporal.DesignWorkflowName, req)
	if err != nil {
		log.Fatalln("❌ Failed to start workflow:", err)
	}

	fmt.Printf("✅ Workflow started with ID: %s\n", workflowRun.GetID())
	fmt.Println("⏳ Waiting for the design pipeline to complete...")

	var result *temporal.DesignResult
	if err := workflowRun.Get(ctx, &result); err != nil {
		log.Fatalln("❌ Workflow failed:", err)
	}

	fmt.Println("\n✅ CloudyIntel completed successfully!")
	fmt.Printf("📊 Final Phase: %s\n", result.Phase)
	fmt.Printf("🔄 Total Iterations: %d\n", result.IterationsUsed)
	fmt.Printf("🏗️  Architecture Components: %d\n", len(result.FinalArchitecture))
	fmt.Printf("📝 Validation Feedback: %d\n", len(result.ValidationFeedback))
	fmt.Printf("🔍 Audit Feedback: %d\n", len(result.AuditFeedback))
	if result.Forced {
		fmt.Println("⚠️  Iteration ceiling reached: the architecture shipped with open findings")
	}

	fmt.Println(report.Render(result))
}
