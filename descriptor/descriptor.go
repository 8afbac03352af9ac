// Package descriptor defines JobDescriptor, the fixed record of every
// recognized jobs-file option for a single fully-resolved job. It replaces
// the duck-typed, dynamically-attributed descriptor of the original
// implementation with one nullable field per option, so iteration is over
// a known, closed field set rather than arbitrary attributes.
package descriptor

import "github.com/jobsdone/ci-jenkins/repository"

// GitOptions is the sub-schema shared by the `git` and
// `additional_repositories` options.
type GitOptions struct {
	URL                 string
	Branch              string
	Remote              string
	Refspec             string
	TargetDir           string
	RecursiveSubmodules bool
	ShallowClone        bool
	Reference           string
	Timeout             string
	Tags                bool
	CleanCheckout       bool
	LFS                 bool
}

// EmailNotification is the sub-schema for `email_notification`.
type EmailNotification struct {
	Recipients        string
	NotifyEveryBuild  bool
	NotifyIndividuals bool
}

// NotifyStash is the sub-schema for `notify_stash`.
type NotifyStash struct {
	URL      string
	Username string
	Password string
}

// Notification is the sub-schema for `notification`.
type Notification struct {
	Protocol string
	Format   string
	URL      string
}

// Slack is the sub-schema for `slack`.
type Slack struct {
	Team  string
	Room  string
	Token string
	URL   string
}

// CoverageThreshold holds the method/line/conditional percentages for one
// of coverage's healthy/unhealthy/failing thresholds.
type CoverageThreshold struct {
	Method      int
	Line        int
	Conditional int
}

// Coverage is the sub-schema for `coverage`.
type Coverage struct {
	ReportPattern string
	Healthy       CoverageThreshold
	Unhealthy     CoverageThreshold
	Failing       CoverageThreshold
}

// WarningParser is one entry of a `warnings.console` or `warnings.file` list.
type WarningParser struct {
	Parser      string
	FilePattern string
}

// Warnings is the sub-schema for `warnings`.
type Warnings struct {
	Console []WarningParser
	File    []WarningParser
}

// TriggerJobs is the sub-schema for `trigger_jobs`.
type TriggerJobs struct {
	Names      []string
	Condition  string
	Parameters string
}

// Parameter is one entry of the `parameters` list.
type Parameter struct {
	Kind        string // "choice" or "string"
	Name        string
	Choices     []string
	Default     string
	Description string
}

// JobDescriptor is one fully-resolved job: a fixed record of every
// recognized option, all nil/zero until the expander sets them, bound to a
// repository and the simple view of the matrix row it came from.
type JobDescriptor struct {
	Repository repository.Repository
	MatrixRow  map[string]string // axis -> canonical value, restricted to multi-valued axes for naming

	Git                    *GitOptions
	AdditionalRepositories []GitOptions

	AuthToken string

	BoosttestPatterns []string
	JunitPatterns     []string
	JsunitPatterns    []string

	BuildBatchCommands  []string
	BuildShellCommands  []string
	BuildPythonCommands []string

	ConsoleColor string

	Coverage *Coverage

	Cron    string
	ScmPoll string

	CustomWorkspace  string
	DisplayName      string
	LabelExpression  string
	DescriptionRegex string

	EmailNotification *EmailNotification
	NotifyStash       *NotifyStash
	Notification      *Notification
	Slack             *Slack

	Parameters []Parameter

	Timeout            string
	TimeoutNoActivity  string
	Timestamps         bool

	Warnings *Warnings

	TriggerJobs *TriggerJobs
}

// New returns a JobDescriptor bound to repo and the canonical matrix
// values of row (simple view), with every option unset.
func New(repo repository.Repository, matrixRow map[string]string) *JobDescriptor {
	return &JobDescriptor{Repository: repo, MatrixRow: matrixRow}
}
