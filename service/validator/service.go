package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/viant/arbiter/model/job"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/parameter"
)

const (
	msgAmbiguous           = "Only label, groovy expression, or resources can be defined, not more than one."
	msgNamesWithParameters = "The following resources cannot be validated as they contain parameter values: %s"
	msgUnknownResources    = "The following resources do not exist: %s"
	msgUnknownParameters   = "The following parameters do not exist: %s"
	msgLabelWithParameter  = "The label cannot be validated as it contains a parameter value: %s"
	msgUnknownLabel        = "The label does not exist: %s"
	msgCountIsParameter    = "The value cannot be validated as it is a parameter value: %s"
	msgCountNotInteger     = "Could not parse the given value as integer."
	msgCountTooBig         = "Given amount %d is greater than amount of resources: %d."
)

// Pool is the read-only pool view consulted by checks
type Pool interface {
	Has(name string) bool
	Len() int
	Matching(expr string) ([]*resource.Resource, error)
}

// Service checks requirement configuration against the pool and job parameters.
// Checks agree with the allocation matching rules, so an accepted configuration
// is resolvable at run time unless the pool changes.
type Service struct {
	pool Pool
}

// CheckResourceNames validates whitespace separated resource names. countConfigured
// reports that an "any N resources of the pool" count is set.
func (s *Service) CheckResourceNames(names, label string, countConfigured bool, aJob *job.Job) *Result {
	names, label = strings.TrimSpace(names), strings.TrimSpace(label)
	if isAmbiguous(names, label, countConfigured) {
		return failure(msgAmbiguous)
	}
	if names == "" {
		return ok()
	}
	known := aJob.ParameterNames()
	var unknownResources, unknownParameters, templated []string
	for _, token := range strings.Fields(names) {
		if parameter.ContainsParameter(token) {
			if unknown := parameter.UnknownParameters(token, known); len(unknown) > 0 {
				unknownParameters = append(unknownParameters, unknown...)
			} else {
				templated = append(templated, token)
			}
			continue
		}
		if !s.pool.Has(token) {
			unknownResources = append(unknownResources, token)
		}
	}
	switch {
	case len(unknownResources) > 0:
		return failure(fmt.Sprintf(msgUnknownResources, formatList(unknownResources)))
	case len(unknownParameters) > 0:
		return failure(fmt.Sprintf(msgUnknownParameters, formatList(unknownParameters)))
	case len(templated) > 0:
		return warning(fmt.Sprintf(msgNamesWithParameters, formatList(templated)))
	}
	return ok()
}

// CheckLabelName validates a label or label expression
func (s *Service) CheckLabelName(label, names string, countConfigured bool, aJob *job.Job) *Result {
	names, label = strings.TrimSpace(names), strings.TrimSpace(label)
	if isAmbiguous(names, label, countConfigured) {
		return failure(msgAmbiguous)
	}
	if label == "" {
		return ok()
	}
	if parameter.ContainsParameter(label) {
		return warning(fmt.Sprintf(msgLabelWithParameter, label))
	}
	if !s.labelExists(label) {
		return failure(fmt.Sprintf(msgUnknownLabel, label))
	}
	return ok()
}

// CheckResourceNumber validates a resource count against the pool size the
// configuration selects from; defaultValue is used when count is empty
func (s *Service) CheckResourceNumber(count, names, label, defaultValue string, aJob *job.Job) *Result {
	value := strings.TrimSpace(count)
	if value == "" {
		value = strings.TrimSpace(defaultValue)
	}
	if value == "" || value == "0" {
		return ok()
	}
	if parameter.IsParameter(value) {
		return warning(fmt.Sprintf(msgCountIsParameter, value))
	}
	var env map[string]string
	if aJob != nil {
		env = aJob.Env(nil)
	}
	expanded, _ := parameter.Expand(value, env)
	amount, err := strconv.Atoi(strings.TrimSpace(expanded))
	if err != nil || amount < 0 {
		return failure(msgCountNotInteger)
	}
	size, known := s.poolSize(strings.TrimSpace(names), strings.TrimSpace(label))
	if known && amount > size {
		return failure(fmt.Sprintf(msgCountTooBig, amount, size))
	}
	return ok()
}

// CheckJob runs every check against the job requirement and returns the most severe result
func (s *Service) CheckJob(aJob *job.Job) *Result {
	if aJob == nil || aJob.Requirement == nil {
		return ok()
	}
	descriptor := aJob.Requirement
	if err := descriptor.Validate(); err != nil {
		return failure(err.Error())
	}
	names, label, quantity := descriptor.Fields()
	countConfigured := descriptor.Kind == requirement.KindCount && label == ""
	result := ok()
	for _, candidate := range []*Result{
		s.CheckResourceNames(names, label, countConfigured, aJob),
		s.CheckLabelName(label, names, countConfigured, aJob),
		s.CheckResourceNumber(quantity, names, label, "", aJob),
	} {
		if candidate.Kind.severity() > result.Kind.severity() {
			result = candidate
		}
	}
	return result
}

// labelExists evaluates label the way allocation does: it must parse and select a resource
func (s *Service) labelExists(label string) bool {
	matched, err := s.pool.Matching(label)
	return err == nil && len(matched) > 0
}

// poolSize returns number of resources the configuration selects from; false when it depends on parameters
func (s *Service) poolSize(names, label string) (int, bool) {
	switch {
	case names != "":
		return len(strings.Fields(names)), true
	case label != "":
		if parameter.ContainsParameter(label) {
			return 0, false
		}
		matched, err := s.pool.Matching(label)
		if err != nil {
			return 0, true
		}
		return len(matched), true
	}
	return s.pool.Len(), true
}

func isAmbiguous(names, label string, countConfigured bool) bool {
	defined := 0
	for _, ok := range []bool{names != "", label != "", countConfigured} {
		if ok {
			defined++
		}
	}
	return defined > 1
}

// New creates a validator over the pool
func New(pool Pool) *Service {
	return &Service{pool: pool}
}
