package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/arbiter/model/job"
	"github.com/viant/arbiter/model/requirement"
	"github.com/viant/arbiter/model/resource"
	"github.com/viant/arbiter/service/pool"
)

const ambiguous = "Only label, groovy expression, or resources can be defined, not more than one."

func newTestService(t *testing.T) (*Service, *job.Job) {
	p, err := pool.New(nil, resource.New("resource1", "some-label"))
	require.NoError(t, err)
	aJob := &job.Job{Name: "p", Parameters: []*job.Parameter{
		{Name: "param1", Default: "resource1"},
		{Name: "param2", Default: "2"},
	}}
	return New(p), aJob
}

func TestService_CheckResourceNames(t *testing.T) {
	srv, aJob := newTestService(t)
	testCases := []struct {
		description     string
		names           string
		label           string
		countConfigured bool
		expectKind      Kind
		expectMessage   string
	}{
		{description: "names with count", names: "resource1", countConfigured: true, expectKind: Error, expectMessage: ambiguous},
		{description: "names with label", names: "resource1", label: "some-label", expectKind: Error, expectMessage: ambiguous},
		{description: "unknown resource next to unknown parameter", names: "${param5} resource3", expectKind: Error, expectMessage: "The following resources do not exist: [resource3]"},
		{description: "unknown parameters", names: "${param5} ${param4} resource1", expectKind: Error, expectMessage: "The following parameters do not exist: [param5, param4]"},
		{description: "known parameter", names: "${param1}", expectKind: Warning, expectMessage: "The following resources cannot be validated as they contain parameter values: [${param1}]"},
		{description: "known parameter inside text", names: "xyz_${param1}[]", expectKind: Warning, expectMessage: "The following resources cannot be validated as they contain parameter values: [xyz_${param1}[]]"},
		{description: "known parameter next to unknown resource", names: "${param1} resource3", expectKind: Error, expectMessage: "The following resources do not exist: [resource3]"},
		{description: "known and unknown parameters", names: "$param1 ${param9}", expectKind: Error, expectMessage: "The following parameters do not exist: [param9]"},
		{description: "escaped placeholder is a literal name", names: "$${param1}", expectKind: Error, expectMessage: "The following resources do not exist: [$${param1}]"},
		{description: "existing resource", names: "resource1", expectKind: OK},
		{description: "nothing", expectKind: OK},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := srv.CheckResourceNames(tc.names, tc.label, tc.countConfigured, aJob)
			assert.Equal(t, tc.expectKind, actual.Kind)
			assert.Equal(t, tc.expectMessage, actual.Message)
		})
	}
}

func TestService_CheckLabelName(t *testing.T) {
	srv, aJob := newTestService(t)
	testCases := []struct {
		description     string
		label           string
		names           string
		countConfigured bool
		expectKind      Kind
		expectMessage   string
	}{
		{description: "label with names", label: "some-label", names: "resource1", expectKind: Error, expectMessage: ambiguous},
		{description: "label with count of any", label: "some-label", countConfigured: true, expectKind: Error, expectMessage: ambiguous},
		{description: "parameter", label: "${param1}", expectKind: Warning, expectMessage: "The label cannot be validated as it contains a parameter value: ${param1}"},
		{description: "two parameters", label: "${param1}${param2}", expectKind: Warning, expectMessage: "The label cannot be validated as it contains a parameter value: ${param1}${param2}"},
		{description: "parameter inside text", label: "resource${param2}", expectKind: Warning, expectMessage: "The label cannot be validated as it contains a parameter value: resource${param2}"},
		{description: "unknown label", label: "other-label", expectKind: Error, expectMessage: "The label does not exist: other-label"},
		{description: "expression without match", label: "some-label && gpu", expectKind: Error, expectMessage: "The label does not exist: some-label && gpu"},
		{description: "malformed expression", label: "some-label &&", expectKind: Error, expectMessage: "The label does not exist: some-label &&"},
		{description: "keyword label", label: "AND", expectKind: Error, expectMessage: "The label does not exist: AND"},
		{description: "label with parentheses", label: "gpu(1)", expectKind: Error, expectMessage: "The label does not exist: gpu(1)"},
		{description: "label with operator character", label: "c&d", expectKind: Error, expectMessage: "The label does not exist: c&d"},
		{description: "existing label", label: "some-label", expectKind: OK},
		{description: "expression with match", label: "some-label && !gpu", expectKind: OK},
		{description: "nothing", expectKind: OK},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := srv.CheckLabelName(tc.label, tc.names, tc.countConfigured, aJob)
			assert.Equal(t, tc.expectKind, actual.Kind)
			assert.Equal(t, tc.expectMessage, actual.Message)
		})
	}
}

func TestService_CheckResourceNumber(t *testing.T) {
	srv, aJob := newTestService(t)
	testCases := []struct {
		description   string
		count         string
		names         string
		label         string
		defaultValue  string
		expectKind    Kind
		expectMessage string
	}{
		{description: "parameter", count: "${param1}", expectKind: Warning, expectMessage: "The value cannot be validated as it is a parameter value: ${param1}"},
		{description: "two parameters", count: "${param1}${param2}", expectKind: Error, expectMessage: "Could not parse the given value as integer."},
		{description: "word", count: "Five", expectKind: Error, expectMessage: "Could not parse the given value as integer."},
		{description: "negative", count: "-1", expectKind: Error, expectMessage: "Could not parse the given value as integer."},
		{description: "more than names", count: "4", names: "resource1", expectKind: Error, expectMessage: "Given amount 4 is greater than amount of resources: 1."},
		{description: "more than label", count: "5", label: "some-label", expectKind: Error, expectMessage: "Given amount 5 is greater than amount of resources: 1."},
		{description: "more than pool", count: "2", expectKind: Error, expectMessage: "Given amount 2 is greater than amount of resources: 1."},
		{description: "default value", defaultValue: "3", expectKind: Error, expectMessage: "Given amount 3 is greater than amount of resources: 1."},
		{description: "label with parameter", count: "5", label: "${param1}", expectKind: OK},
		{description: "fits names", count: "1", names: "resource1", expectKind: OK},
		{description: "fits label", count: "1", label: "some-label", expectKind: OK},
		{description: "zero", count: "0", expectKind: OK},
		{description: "nothing", expectKind: OK},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			actual := srv.CheckResourceNumber(tc.count, tc.names, tc.label, tc.defaultValue, aJob)
			assert.Equal(t, tc.expectKind, actual.Kind)
			assert.Equal(t, tc.expectMessage, actual.Message)
		})
	}
}

func TestService_CheckJob(t *testing.T) {
	srv, aJob := newTestService(t)
	testCases := []struct {
		description   string
		requirement   *requirement.Descriptor
		expectKind    Kind
		expectMessage string
	}{
		{description: "no requirement", expectKind: OK},
		{description: "names", requirement: requirement.Names("resource1"), expectKind: OK},
		{description: "label", requirement: requirement.Label("some-label"), expectKind: OK},
		{description: "count of label", requirement: requirement.Count("some-label", "1"), expectKind: OK},
		{description: "count of any with parameter", requirement: requirement.Count("", "${param2}"), expectKind: Warning, expectMessage: "The value cannot be validated as it is a parameter value: ${param2}"},
		{description: "count over label", requirement: requirement.Count("some-label", "3"), expectKind: Error, expectMessage: "Given amount 3 is greater than amount of resources: 1."},
		{description: "unknown label", requirement: requirement.Label("nope"), expectKind: Error, expectMessage: "The label does not exist: nope"},
		{description: "unknown parameter", requirement: requirement.Names("${param9}"), expectKind: Error, expectMessage: "The following parameters do not exist: [param9]"},
		{description: "ambiguous descriptor", requirement: &requirement.Descriptor{Kind: requirement.KindNames, Names: []string{"resource1"}, Label: "some-label"}, expectKind: Error, expectMessage: ambiguous},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			aJob.Requirement = tc.requirement
			actual := srv.CheckJob(aJob)
			assert.Equal(t, tc.expectKind, actual.Kind)
			assert.Equal(t, tc.expectMessage, actual.Message)
		})
	}
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "OK", ok().String())
	assert.Equal(t, "ERROR: The label does not exist: x", failure("The label does not exist: x").String())
	assert.True(t, ok().IsOK())
	assert.True(t, failure("x").IsError())
}
