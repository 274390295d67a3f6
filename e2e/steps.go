package e2e

import (
	"github.com/cucumber/godog"

	"sponsorreg/e2e/steps/registry"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	registry.RegisterSteps(ctx, tc)
}
