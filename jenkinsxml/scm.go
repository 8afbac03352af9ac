package jenkinsxml

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/repository"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

// setPrimaryGit writes the primary repository's <scm class="hudson.plugins
// .git.GitSCM"> block, using desc.Git to override branch/remote/refspec/
// extensions when the jobs file customized them.
func setPrimaryGit(tree *xmltree.Node, repo repository.Repository, git *descriptor.GitOptions) {
	scm := tree.Child("scm")
	buildGitSCM(scm, repo, git)
}

// buildGitSCM fills an already-positioned <scm> (or a <scms>-nested one for
// MultiSCM) node with one GitSCM's configuration.
func buildGitSCM(scm *xmltree.Node, repo repository.Repository, git *descriptor.GitOptions) {
	scm.SetAttr("class", "hudson.plugins.git.GitSCM")

	url := repo.URL
	branch := repo.Branch
	remote := "origin"
	targetDir := repo.Name

	if git != nil {
		if git.URL != "" {
			url = git.URL
		}
		if git.Branch != "" {
			branch = git.Branch
		}
		if git.Remote != "" {
			remote = git.Remote
		}
		if git.TargetDir != "" {
			targetDir = git.TargetDir
		}
	}

	userRemote := scm.Navigate("userRemoteConfigs/hudson.plugins.git.UserRemoteConfig+")
	userRemote.Set("url", url)
	userRemote.Set("name", remote)
	if git != nil && git.Refspec != "" {
		userRemote.Set("refspec", git.Refspec)
	}

	scm.Set("branches/hudson.plugins.git.BranchSpec/name", branch)

	extensions := scm.Child("extensions")
	extensions.Navigate("hudson.plugins.git.extensions.impl.RelativeTargetDirectory/relativeTargetDir").SetText(targetDir)
	extensions.Navigate("hudson.plugins.git.extensions.impl.LocalBranch/localBranch").SetText(branch)

	if git != nil {
		if git.RecursiveSubmodules {
			extensions.Append("hudson.plugins.git.extensions.impl.SubmoduleOption").Set("recursiveSubmodules", "true")
		}
		if git.ShallowClone || !git.Tags {
			clone := extensions.Append("hudson.plugins.git.extensions.impl.CloneOption")
			clone.Set("shallow", boolString(git.ShallowClone))
			// tags: true keeps tags; the default (false) sets noTags, so
			// the emitted flag is the boolean inversion of the option.
			clone.Set("noTags", boolString(!git.Tags))
			if git.Reference != "" {
				clone.Set("reference", git.Reference)
			}
			if git.Timeout != "" {
				clone.Set("timeout", git.Timeout)
			}
		}
		if git.CleanCheckout {
			extensions.Append("hudson.plugins.git.extensions.impl.CleanCheckout")
		}
		if git.LFS {
			extensions.Append("hudson.plugins.git.extensions.impl.GitLFSPull")
		}
	}
}

// setAdditionalRepositories switches the primary <scm> node to a
// org.jenkinsci.plugins.multiplescms.MultiSCM, relocating the primary git
// block under <scms> and appending one GitSCM block per extra repository.
func setAdditionalRepositories(tree *xmltree.Node, repo repository.Repository, primaryGit *descriptor.GitOptions, extra []descriptor.GitOptions) {
	if len(extra) == 0 {
		return
	}

	old := tree.Child("scm")
	multi := xmltree.New("scm")
	multi.SetAttr("class", "org.jenkinsci.plugins.multiplescms.MultiSCM")

	scms := multi.Child("scms")
	relocated := scms.Append("hudson.plugins.git.GitSCM")
	relocated.Attrs = old.Attrs
	relocated.Children = old.Children
	relocated.Text = old.Text

	for _, g := range extra {
		g := g
		gitNode := scms.Append("hudson.plugins.git.GitSCM")
		buildGitSCM(gitNode, repo, &g)
	}

	replaceChild(tree, "scm", multi)
}

func replaceChild(parent *xmltree.Node, tag string, replacement *xmltree.Node) {
	for i, c := range parent.Children {
		if c.Tag == tag {
			parent.Children[i] = replacement
			return
		}
	}
	parent.Children = append(parent.Children, replacement)
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
