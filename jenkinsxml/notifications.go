package jenkinsxml

import (
	"github.com/jobsdone/ci-jenkins/descriptor"
	"github.com/jobsdone/ci-jenkins/xmltree"
)

func setEmailNotification(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	e := desc.EmailNotification
	if e == nil {
		return nil
	}

	mailer := tree.Child("publishers").Append("hudson.tasks.Mailer")
	mailer.Set("recipients", e.Recipients)
	mailer.Set("dontNotifyEveryUnstableBuild", boolString(!e.NotifyEveryBuild))
	mailer.Set("sendToIndividuals", boolString(e.NotifyIndividuals))
	return nil
}

func setNotifyStash(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	n := desc.NotifyStash
	if n == nil {
		return nil
	}

	notifier := tree.Child("publishers").Append("org.jenkinsci.plugins.stashNotifier.StashNotifier")
	notifier.Set("stashServerBaseUrl", n.URL)
	if n.Username != "" {
		notifier.Set("stashUserName", n.Username)
	}
	if n.Password != "" {
		notifier.Set("stashUserPassword", n.Password)
	}
	return nil
}

func setNotification(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	n := desc.Notification
	if n == nil {
		return nil
	}

	endpoint := tree.Navigate("properties/com.tikal.hudson.plugins.notification.HudsonNotificationProperty/endpoints/com.tikal.hudson.plugins.notification.Endpoint")
	endpoint.Set("protocol", n.Protocol)
	endpoint.Set("format", n.Format)
	endpoint.Set("url", n.URL)
	return nil
}

func setSlack(tree *xmltree.Node, desc *descriptor.JobDescriptor) error {
	s := desc.Slack
	if s == nil {
		return nil
	}

	notifier := tree.Child("publishers").Append("jenkins.plugins.slack.SlackNotifier")
	notifier.Set("teamDomain", s.Team)
	notifier.Set("room", s.Room)
	notifier.Set("authToken", s.Token)
	if s.URL != "" {
		notifier.Set("baseUrl", s.URL)
	}
	return nil
}
