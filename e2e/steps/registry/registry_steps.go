package registry

import (
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body interface{}) error
	PUT(path string, body interface{}) error
	GET(path string) error
	ActAs(principal string)
	LastStatus() int
	GetResponseField(field string) (interface{}, error)
}

// RegisterSteps registers agreement registry step definitions. Call once
// per scenario: the steps value tracks the last created agreement id.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc, lastAgreementID: -1}

	ctx.Step(`^I act as "([^"]*)"$`, steps.actAs)
	ctx.Step(`^the authority contract is "([^"]*)"$`, steps.setAuthority)
	ctx.Step(`^I create an agreement named "([^"]*)" for immigrant "([^"]*)"$`, steps.createAgreement)
	ctx.Step(`^I update the agreement to name "([^"]*)" with (\d+) dependents and support (\d+)$`, steps.updateAgreement)
	ctx.Step(`^I fetch the agreement$`, steps.fetchAgreement)
	ctx.Step(`^I check existence of "([^"]*)"$`, steps.checkExistence)
	ctx.Step(`^the response status is (\d+)$`, steps.assertStatus)
	ctx.Step(`^the response field "([^"]*)" is "([^"]*)"$`, steps.assertStringField)
	ctx.Step(`^the agreement exists$`, steps.assertExists)
	ctx.Step(`^the agreement does not exist$`, steps.assertNotExists)
}

type registrySteps struct {
	tc              TestContext
	lastAgreementID int
}

func (s *registrySteps) actAs(principal string) error {
	s.tc.ActAs(principal)
	return nil
}

func (s *registrySteps) setAuthority(contract string) error {
	return s.tc.POST("/admin/authority", map[string]interface{}{"authority": contract})
}

func (s *registrySteps) createAgreement(name, immigrant string) error {
	body := map[string]interface{}{
		"name":             name,
		"agreement_type":   "family",
		"location":         "VillageX",
		"currency":         "STX",
		"support_amount":   100,
		"min_support":      50,
		"max_obligation":   1000,
		"interest_rate":    10,
		"penalty_rate":     5,
		"max_dependents":   10,
		"frequency":        30,
		"grace_period":     7,
		"voting_threshold": 50,
		"immigrant":        immigrant,
	}
	if err := s.tc.POST("/agreements", body); err != nil {
		return err
	}
	if s.tc.LastStatus() == 201 {
		id, err := s.tc.GetResponseField("agreement_id")
		if err != nil {
			return err
		}
		s.lastAgreementID = int(id.(float64))
	}
	return nil
}

func (s *registrySteps) updateAgreement(name string, dependents, support int) error {
	body := map[string]interface{}{
		"name":           name,
		"max_dependents": dependents,
		"support_amount": support,
	}
	return s.tc.PUT(fmt.Sprintf("/agreements/%d", s.lastAgreementID), body)
}

func (s *registrySteps) fetchAgreement() error {
	return s.tc.GET(fmt.Sprintf("/agreements/%d", s.lastAgreementID))
}

func (s *registrySteps) checkExistence(name string) error {
	return s.tc.GET("/agreements/exists?name=" + name)
}

func (s *registrySteps) assertStatus(expected int) error {
	if s.tc.LastStatus() != expected {
		return fmt.Errorf("expected status %d, got %d", expected, s.tc.LastStatus())
	}
	return nil
}

func (s *registrySteps) assertStringField(field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	got := fmt.Sprintf("%v", value)
	if got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *registrySteps) assertExists() error {
	return s.assertStringField("exists", "true")
}

func (s *registrySteps) assertNotExists() error {
	return s.assertStringField("exists", "false")
}
