// Package reconcile diffs a desired set of generated Jenkins jobs against
// the jobs already present on a server for the same repository and branch,
// and issues the create/reconfigure/delete calls needed to converge.
package reconcile

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/jobsdone/ci-jenkins/jenkins"
	"github.com/jobsdone/ci-jenkins/jenkinsxml"
	"github.com/jobsdone/ci-jenkins/jobserrors"
	"github.com/jobsdone/ci-jenkins/repository"
)

// retryAttempts and retryDelay bound each individual Jenkins call: a fixed
// (non-exponential) delay between attempts, retried only on the proxy-class
// failures observed in practice (403, 502).
const (
	retryAttempts = 3
	retryDelay    = 1 * time.Second
)

// Result is the outcome of one Reconcile call: the sorted job names that
// were created, reconfigured and deleted.
type Result struct {
	Created []string
	Updated []string
	Deleted []string
}

// Reconcile brings the Jenkins server named by client into agreement with
// jobs, for the given repository. All of jobs must belong to repo.
func Reconcile(ctx context.Context, client *jenkins.Client, repo repository.Repository, jobs []jenkinsxml.JenkinsJob) (Result, error) {
	logger := logrus.WithField("component", "reconcile")

	byName := make(map[string]jenkinsxml.JenkinsJob, len(jobs))
	desired := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
		desired[j.Name] = true
	}

	allNames, err := client.ListJobNames(ctx)
	if err != nil {
		return Result{}, &jobserrors.ReconciliationFailure{Operation: "list", JobName: "", Err: err}
	}

	prefix := repo.Name + "-" + repo.Branch
	existing := make(map[string]bool)
	for _, name := range allNames {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		cfg, err := client.GetJobConfig(ctx, name)
		if err != nil {
			return Result{}, &jobserrors.ReconciliationFailure{Operation: "get-config", JobName: name, Err: err}
		}

		branch, err := scmBranch(cfg, repo)
		if err != nil {
			return Result{}, &jobserrors.ReconciliationFailure{Operation: "detect-branch", JobName: name, Err: err}
		}

		if branch == repo.Branch {
			existing[name] = true
		}
	}

	var create, update, del []string
	for name := range desired {
		if existing[name] {
			update = append(update, name)
		} else {
			create = append(create, name)
		}
	}
	for name := range existing {
		if !desired[name] {
			del = append(del, name)
		}
	}
	sort.Strings(create)
	sort.Strings(update)
	sort.Strings(del)

	for _, name := range create {
		logger.WithField("job", name).Info("creating job")
		job := byName[name]
		if err := retry(func() error { return client.CreateJob(ctx, name, job.XML) }); err != nil {
			return Result{}, &jobserrors.ReconciliationFailure{Operation: "create", JobName: name, Err: err}
		}
	}

	for _, name := range update {
		logger.WithField("job", name).Info("reconfiguring job")
		job := byName[name]
		if err := retry(func() error { return client.ReconfigureJob(ctx, name, job.XML) }); err != nil {
			return Result{}, &jobserrors.ReconciliationFailure{Operation: "update", JobName: name, Err: err}
		}
	}

	for _, name := range del {
		logger.WithField("job", name).Info("deleting job")
		if err := retry(func() error { return client.DeleteJob(ctx, name) }); err != nil {
			return Result{}, &jobserrors.ReconciliationFailure{Operation: "delete", JobName: name, Err: err}
		}
	}

	return Result{Created: create, Updated: update, Deleted: del}, nil
}

// retry runs op up to retryAttempts times with a fixed retryDelay between
// attempts, but only retries when the failure is a retryable Jenkins
// StatusError (403 or 502); any other error propagates immediately.
func retry(op func() error) error {
	backoff := wait.Backoff{
		Duration: retryDelay,
		Factor:   1,
		Jitter:   0,
		Steps:    retryAttempts,
	}

	var lastErr error
	pollErr := wait.ExponentialBackoff(backoff, func() (bool, error) {
		lastErr = op()
		if lastErr == nil {
			return true, nil
		}
		if !retryable(lastErr) {
			return false, lastErr
		}
		return false, nil
	})

	if pollErr != nil && pollErr != wait.ErrWaitTimeout {
		return pollErr
	}
	return lastErr
}

func retryable(err error) bool {
	var statusErr *jenkins.StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == 403 || statusErr.StatusCode == 502
}

// configDoc captures just enough of a job's config.xml to determine the SCM
// branch it is pointed at, in either the single-<scm> or <scms>-list
// (MultiSCM) layout.
type configDoc struct {
	XMLName xml.Name `xml:"project"`
	SCM     scmDoc   `xml:"scm"`
}

type scmDoc struct {
	Branches          branchesDoc `xml:"branches"`
	UserRemoteConfigs remotesDoc  `xml:"userRemoteConfigs"`
	SCMs              struct {
		GitSCM []gitSCMDoc `xml:"hudson.plugins.git.GitSCM"`
	} `xml:"scms"`
}

type gitSCMDoc struct {
	Branches          branchesDoc `xml:"branches"`
	UserRemoteConfigs remotesDoc  `xml:"userRemoteConfigs"`
}

type branchesDoc struct {
	BranchSpec []struct {
		Name string `xml:"name"`
	} `xml:"hudson.plugins.git.BranchSpec"`
}

type remotesDoc struct {
	UserRemoteConfig []struct {
		URL string `xml:"url"`
	} `xml:"hudson.plugins.git.UserRemoteConfig"`
}

func (b branchesDoc) name() string {
	if len(b.BranchSpec) == 0 {
		return ""
	}
	return b.BranchSpec[0].Name
}

// scmBranch determines the SCM branch a peer job's config.xml points at,
// per §4.G: either directly from a single <scm> block, or by searching a
// MultiSCM's <scms> list for the GitSCM whose remote URL matches repo.URL.
func scmBranch(configXML string, repo repository.Repository) (string, error) {
	var doc configDoc
	if err := xml.Unmarshal([]byte(configXML), &doc); err != nil {
		return "", errors.Wrap(err, "reconcile: parse config.xml")
	}

	if len(doc.SCM.SCMs.GitSCM) > 0 {
		var observed []string
		for _, g := range doc.SCM.SCMs.GitSCM {
			for _, u := range g.UserRemoteConfigs.UserRemoteConfig {
				observed = append(observed, u.URL)
				if repository.SameURL(u.URL, repo.URL) {
					return g.Branches.name(), nil
				}
			}
		}
		return "", fmt.Errorf("reconcile: no SCM in MultiSCM matches %q (observed: %s)", repo.URL, strings.Join(observed, ", "))
	}

	return doc.SCM.Branches.name(), nil
}
