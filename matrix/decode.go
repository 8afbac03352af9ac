package matrix

import (
	"strconv"
	"strings"

	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/jobserrors"
	"github.com/jobsdone/ci-jenkins/jobsfile"
)

// decodeInto converts a flattened, per-row OrderedMap of resolved options
// (with matrix/branch_patterns/exclude/ignore_unmatchable already removed)
// into typed JobDescriptor fields.
func decodeInto(desc *descriptor.JobDescriptor, m *jobsfile.OrderedMap) error {
	for _, name := range m.Keys() {
		val, _ := m.Get(name)

		var err error
		switch name {
		case "git":
			desc.Git, err = decodeGitOptions("git", val)
		case "additional_repositories":
			desc.AdditionalRepositories, err = decodeAdditionalRepositories(val)
		case "auth_token":
			desc.AuthToken, err = asString(name, val)
		case "boosttest_patterns":
			desc.BoosttestPatterns, err = asStringList(name, val)
		case "junit_patterns":
			desc.JunitPatterns, err = asStringList(name, val)
		case "jsunit_patterns":
			desc.JsunitPatterns, err = asStringList(name, val)
		case "build_batch_commands":
			desc.BuildBatchCommands, err = flattenCommands(val)
		case "build_shell_commands":
			desc.BuildShellCommands, err = flattenCommands(val)
		case "build_python_commands":
			desc.BuildPythonCommands, err = flattenCommands(val)
		case "console_color":
			desc.ConsoleColor, err = decodeConsoleColor(val)
		case "coverage":
			desc.Coverage, err = decodeCoverage(val)
		case "cron":
			desc.Cron, err = asString(name, val)
		case "scm_poll":
			desc.ScmPoll, err = asString(name, val)
		case "custom_workspace":
			desc.CustomWorkspace, err = asString(name, val)
		case "display_name":
			desc.DisplayName, err = asString(name, val)
		case "label_expression":
			desc.LabelExpression, err = asString(name, val)
		case "description_regex":
			desc.DescriptionRegex, err = asString(name, val)
		case "email_notification":
			desc.EmailNotification, err = decodeEmailNotification(val)
		case "notify_stash":
			desc.NotifyStash, err = decodeNotifyStash(val)
		case "notification":
			desc.Notification, err = decodeNotification(val)
		case "slack":
			desc.Slack, err = decodeSlack(val)
		case "parameters":
			desc.Parameters, err = decodeParameters(val)
		case "timeout":
			desc.Timeout, err = asString(name, val)
		case "timeout_no_activity":
			desc.TimeoutNoActivity, err = asString(name, val)
		case "timestamps":
			var b bool
			b, err = asBool(name, val)
			desc.Timestamps = b
		case "warnings":
			desc.Warnings, err = decodeWarnings(val)
		case "trigger_jobs":
			desc.TriggerJobs, err = decodeTriggerJobs(val)
		default:
			return &jobserrors.UnknownOption{Name: name}
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func asString(name string, v jobsfile.Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", &jobserrors.TypeMismatch{Name: name, Got: "unknown", Expected: "string", Value: v}
	}
	return s, nil
}

func asBool(name string, v jobsfile.Value) (bool, error) {
	s, err := asString(name, v)
	if err != nil {
		return false, err
	}
	return jobsfile.Boolean(s)
}

func asStringList(name string, v jobsfile.Value) ([]string, error) {
	list, ok := v.([]jobsfile.Value)
	if !ok {
		return nil, &jobserrors.TypeMismatch{Name: name, Got: "unknown", Expected: "list", Value: v}
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, &jobserrors.TypeMismatch{Name: name, Got: "unknown", Expected: "string", Value: e}
		}
		out = append(out, s)
	}
	return out, nil
}

func asMap(name string, v jobsfile.Value) (*jobsfile.OrderedMap, error) {
	m, ok := v.(*jobsfile.OrderedMap)
	if !ok {
		return nil, &jobserrors.TypeMismatch{Name: name, Got: "unknown", Expected: "map", Value: v}
	}
	return m, nil
}

// flattenCommands recursively flattens possibly-nested lists of build
// commands into one flat ordered list, as build_*_commands values may
// nest arbitrarily. BatchFile commands (build_batch_commands) additionally
// get their LF normalized to CRLF by the generator, not here.
func flattenCommands(v jobsfile.Value) ([]string, error) {
	var out []string
	var walk func(v jobsfile.Value) error
	walk = func(v jobsfile.Value) error {
		switch t := v.(type) {
		case string:
			out = append(out, t)
		case []jobsfile.Value:
			for _, e := range t {
				if err := walk(e); err != nil {
					return err
				}
			}
		default:
			return &jobserrors.TypeMismatch{Name: "build_commands", Got: "unknown", Expected: "string or list", Value: v}
		}
		return nil
	}
	if err := walk(v); err != nil {
		return nil, err
	}
	return out, nil
}

var validConsoleColors = []string{"", "xterm", "vga", "css", "gnome-terminal"}

func decodeConsoleColor(v jobsfile.Value) (string, error) {
	s, err := asString("console_color", v)
	if err != nil {
		return "", err
	}
	for _, valid := range validConsoleColors {
		if s == valid {
			if s == "" {
				return "xterm", nil
			}
			return s, nil
		}
	}
	return "", &jobserrors.InvalidEnumValue{Option: "console_color", Value: s, Valid: validConsoleColors}
}

// popString removes name from m and returns its string value and true, or
// ("", false, nil) if absent; a non-string value is a TypeMismatch.
func popString(m *jobsfile.OrderedMap, name string) (string, bool, error) {
	v, ok := m.Get(name)
	if !ok {
		return "", false, nil
	}
	m.Delete(name)
	s, err := asString(name, v)
	return s, true, err
}

func checkResidualKeys(section string, m *jobsfile.OrderedMap) error {
	if m.Len() > 0 {
		return &jobserrors.UnknownSubOption{Section: section, Keys: m.Keys()}
	}
	return nil
}

func decodeGitOptions(section string, v jobsfile.Value) (*descriptor.GitOptions, error) {
	m, err := asMap(section, v)
	if err != nil {
		return nil, err
	}

	g := &descriptor.GitOptions{}
	var ok bool
	if g.URL, ok, err = popString(m, "url"); err != nil {
		return nil, err
	} else if !ok {
		return nil, &jobserrors.MissingRequired{Section: section, Field: "url"}
	}
	g.Branch, _, err = popString(m, "branch")
	if err != nil {
		return nil, err
	}
	if g.Branch == "" && section != "git" {
		g.Branch = "master"
	}
	if g.Remote, _, err = popString(m, "remote"); err != nil {
		return nil, err
	}
	if g.Refspec, _, err = popString(m, "refspec"); err != nil {
		return nil, err
	}
	if g.TargetDir, _, err = popString(m, "target_dir"); err != nil {
		return nil, err
	}
	if recursive, present, e := popString(m, "recursive_submodules"); e != nil {
		return nil, e
	} else if present {
		if g.RecursiveSubmodules, err = jobsfile.Boolean(recursive); err != nil {
			return nil, err
		}
	}
	if shallow, present, e := popString(m, "shallow_clone"); e != nil {
		return nil, e
	} else if present {
		if g.ShallowClone, err = jobsfile.Boolean(shallow); err != nil {
			return nil, err
		}
	}
	if g.Reference, _, err = popString(m, "reference"); err != nil {
		return nil, err
	}
	if g.Timeout, _, err = popString(m, "timeout"); err != nil {
		return nil, err
	}
	if tags, present, e := popString(m, "tags"); e != nil {
		return nil, e
	} else if present {
		if g.Tags, err = jobsfile.Boolean(tags); err != nil {
			return nil, err
		}
	}
	if clean, present, e := popString(m, "clean_checkout"); e != nil {
		return nil, e
	} else if present {
		if g.CleanCheckout, err = jobsfile.Boolean(clean); err != nil {
			return nil, err
		}
	}
	if lfs, present, e := popString(m, "lfs"); e != nil {
		return nil, e
	} else if present {
		if g.LFS, err = jobsfile.Boolean(lfs); err != nil {
			return nil, err
		}
	}

	if err := checkResidualKeys(section, m); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeAdditionalRepositories(v jobsfile.Value) ([]descriptor.GitOptions, error) {
	list, ok := v.([]jobsfile.Value)
	if !ok {
		return nil, &jobserrors.TypeMismatch{Name: "additional_repositories", Got: "unknown", Expected: "list", Value: v}
	}
	out := make([]descriptor.GitOptions, 0, len(list))
	for _, e := range list {
		g, err := decodeGitOptions("additional_repositories", e)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}

func decodeEmailNotification(v jobsfile.Value) (*descriptor.EmailNotification, error) {
	if s, ok := v.(string); ok {
		return &descriptor.EmailNotification{Recipients: s}, nil
	}
	m, err := asMap("email_notification", v)
	if err != nil {
		return nil, err
	}
	e := &descriptor.EmailNotification{}
	if e.Recipients, _, err = popString(m, "recipients"); err != nil {
		return nil, err
	}
	if notify, present, err := popString(m, "notify_every_build"); err != nil {
		return nil, err
	} else if present {
		if e.NotifyEveryBuild, err = jobsfile.Boolean(notify); err != nil {
			return nil, err
		}
	} else {
		e.NotifyEveryBuild = true
	}
	if individuals, present, err := popString(m, "notify_individuals"); err != nil {
		return nil, err
	} else if present {
		if e.NotifyIndividuals, err = jobsfile.Boolean(individuals); err != nil {
			return nil, err
		}
	}
	if err := checkResidualKeys("email_notification", m); err != nil {
		return nil, err
	}
	return e, nil
}

func decodeNotifyStash(v jobsfile.Value) (*descriptor.NotifyStash, error) {
	if s, ok := v.(string); ok {
		return &descriptor.NotifyStash{URL: s}, nil
	}
	m, err := asMap("notify_stash", v)
	if err != nil {
		return nil, err
	}
	n := &descriptor.NotifyStash{}
	var ok bool
	if n.URL, ok, err = popString(m, "url"); err != nil {
		return nil, err
	} else if !ok {
		return nil, &jobserrors.MissingRequired{Section: "notify_stash", Field: "url"}
	}
	if n.Username, _, err = popString(m, "username"); err != nil {
		return nil, err
	}
	if n.Password, _, err = popString(m, "password"); err != nil {
		return nil, err
	}
	if err := checkResidualKeys("notify_stash", m); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeNotification(v jobsfile.Value) (*descriptor.Notification, error) {
	m, err := asMap("notification", v)
	if err != nil {
		return nil, err
	}
	n := &descriptor.Notification{Protocol: "HTTP", Format: "JSON"}
	if protocol, present, e := popString(m, "protocol"); e != nil {
		return nil, e
	} else if present {
		n.Protocol = protocol
	}
	if format, present, e := popString(m, "format"); e != nil {
		return nil, e
	} else if present {
		n.Format = format
	}
	var ok bool
	if n.URL, ok, err = popString(m, "url"); err != nil {
		return nil, err
	} else if !ok {
		return nil, &jobserrors.MissingRequired{Section: "notification", Field: "url"}
	}
	if err := checkResidualKeys("notification", m); err != nil {
		return nil, err
	}
	return n, nil
}

func decodeSlack(v jobsfile.Value) (*descriptor.Slack, error) {
	if s, ok := v.(string); ok {
		return &descriptor.Slack{Room: s}, nil
	}
	m, err := asMap("slack", v)
	if err != nil {
		return nil, err
	}
	s := &descriptor.Slack{Room: "general"}
	if s.Team, _, err = popString(m, "team"); err != nil {
		return nil, err
	}
	if room, present, e := popString(m, "room"); e != nil {
		return nil, e
	} else if present {
		s.Room = room
	}
	if s.Token, _, err = popString(m, "token"); err != nil {
		return nil, err
	}
	if s.URL, _, err = popString(m, "url"); err != nil {
		return nil, err
	}
	if err := checkResidualKeys("slack", m); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeCoverageThreshold(section string, m *jobsfile.OrderedMap) (descriptor.CoverageThreshold, error) {
	t := descriptor.CoverageThreshold{Method: 80, Line: 0, Conditional: 0}
	if m == nil {
		return t, nil
	}
	if v, present, err := popString(m, "method"); err != nil {
		return t, err
	} else if present {
		n, err := strconv.Atoi(v)
		if err != nil {
			return t, &jobserrors.TypeMismatch{Name: section + ".method", Got: "string", Expected: "integer", Value: v}
		}
		t.Method = n
	}
	if v, present, err := popString(m, "line"); err != nil {
		return t, err
	} else if present {
		n, err := strconv.Atoi(v)
		if err != nil {
			return t, &jobserrors.TypeMismatch{Name: section + ".line", Got: "string", Expected: "integer", Value: v}
		}
		t.Line = n
	}
	if v, present, err := popString(m, "conditional"); err != nil {
		return t, err
	} else if present {
		n, err := strconv.Atoi(v)
		if err != nil {
			return t, &jobserrors.TypeMismatch{Name: section + ".conditional", Got: "string", Expected: "integer", Value: v}
		}
		t.Conditional = n
	}
	return t, checkResidualKeys(section, m)
}

func decodeCoverage(v jobsfile.Value) (*descriptor.Coverage, error) {
	m, err := asMap("coverage", v)
	if err != nil {
		return nil, err
	}
	c := &descriptor.Coverage{}
	var ok bool
	if c.ReportPattern, ok, err = popString(m, "report_pattern"); err != nil {
		return nil, err
	} else if !ok {
		return nil, &jobserrors.MissingRequired{Section: "coverage", Field: "report_pattern"}
	}

	for _, pair := range []struct {
		name string
		dest *descriptor.CoverageThreshold
	}{
		{"healthy", &c.Healthy},
		{"unhealthy", &c.Unhealthy},
		{"failing", &c.Failing},
	} {
		sub, present := m.Get(pair.name)
		if !present {
			*pair.dest, err = decodeCoverageThreshold("coverage."+pair.name, nil)
			if err != nil {
				return nil, err
			}
			continue
		}
		m.Delete(pair.name)
		subMap, err := asMap("coverage."+pair.name, sub)
		if err != nil {
			return nil, err
		}
		*pair.dest, err = decodeCoverageThreshold("coverage."+pair.name, subMap)
		if err != nil {
			return nil, err
		}
	}

	if err := checkResidualKeys("coverage", m); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeWarningParsers(section string, v jobsfile.Value) ([]descriptor.WarningParser, error) {
	list, ok := v.([]jobsfile.Value)
	if !ok {
		return nil, &jobserrors.TypeMismatch{Name: section, Got: "unknown", Expected: "list", Value: v}
	}
	if len(list) == 0 {
		return nil, &jobserrors.MissingRequired{Section: "warnings", Field: section}
	}
	out := make([]descriptor.WarningParser, 0, len(list))
	for _, e := range list {
		m, err := asMap(section, e)
		if err != nil {
			return nil, err
		}
		var wp descriptor.WarningParser
		var ok bool
		if wp.Parser, ok, err = popString(m, "parser"); err != nil {
			return nil, err
		} else if !ok {
			return nil, &jobserrors.MissingRequired{Section: section, Field: "parser"}
		}
		if wp.FilePattern, _, err = popString(m, "file_pattern"); err != nil {
			return nil, err
		}
		if err := checkResidualKeys(section, m); err != nil {
			return nil, err
		}
		out = append(out, wp)
	}
	return out, nil
}

func decodeWarnings(v jobsfile.Value) (*descriptor.Warnings, error) {
	m, err := asMap("warnings", v)
	if err != nil {
		return nil, err
	}
	w := &descriptor.Warnings{}
	if console, present := m.Get("console"); present {
		m.Delete("console")
		if w.Console, err = decodeWarningParsers("warnings.console", console); err != nil {
			return nil, err
		}
	}
	if file, present := m.Get("file"); present {
		m.Delete("file")
		if w.File, err = decodeWarningParsers("warnings.file", file); err != nil {
			return nil, err
		}
	}
	if len(w.Console) == 0 && len(w.File) == 0 {
		return nil, &jobserrors.MissingRequired{Section: "warnings", Field: "console or file"}
	}
	if err := checkResidualKeys("warnings", m); err != nil {
		return nil, err
	}
	return w, nil
}

var validTriggerConditions = []string{"SUCCESS", "UNSTABLE", "FAILED", "ALWAYS"}

func decodeTriggerJobs(v jobsfile.Value) (*descriptor.TriggerJobs, error) {
	m, err := asMap("trigger_jobs", v)
	if err != nil {
		return nil, err
	}
	t := &descriptor.TriggerJobs{Condition: "SUCCESS"}

	names, present := m.Get("names")
	if present {
		m.Delete("names")
		if t.Names, err = asStringList("trigger_jobs.names", names); err != nil {
			return nil, err
		}
	}
	if cond, present, err := popString(m, "condition"); err != nil {
		return nil, err
	} else if present {
		valid := false
		for _, v := range validTriggerConditions {
			if strings.EqualFold(cond, v) {
				valid = true
				t.Condition = v
				break
			}
		}
		if !valid {
			return nil, &jobserrors.InvalidEnumValue{Option: "trigger_jobs.condition", Value: cond, Valid: validTriggerConditions}
		}
	}
	if raw, present := m.Get("parameters"); present {
		m.Delete("parameters")
		params, err := asStringList("trigger_jobs.parameters", raw)
		if err != nil {
			return nil, err
		}
		t.Parameters = strings.Join(params, " ")
	}
	if err := checkResidualKeys("trigger_jobs", m); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeParameters(v jobsfile.Value) ([]descriptor.Parameter, error) {
	list, ok := v.([]jobsfile.Value)
	if !ok {
		return nil, &jobserrors.TypeMismatch{Name: "parameters", Got: "unknown", Expected: "list", Value: v}
	}
	out := make([]descriptor.Parameter, 0, len(list))
	for _, e := range list {
		m, err := asMap("parameters", e)
		if err != nil {
			return nil, err
		}
		var p descriptor.Parameter
		if choices, present := m.Get("choices"); present {
			m.Delete("choices")
			p.Kind = "choice"
			if p.Choices, err = asStringList("parameters.choices", choices); err != nil {
				return nil, err
			}
		} else {
			p.Kind = "string"
		}
		var ok bool
		if p.Name, ok, err = popString(m, "name"); err != nil {
			return nil, err
		} else if !ok {
			return nil, &jobserrors.MissingRequired{Section: "parameters", Field: "name"}
		}
		if p.Default, _, err = popString(m, "default"); err != nil {
			return nil, err
		}
		if p.Description, _, err = popString(m, "description"); err != nil {
			return nil, err
		}
		if err := checkResidualKeys("parameters", m); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
