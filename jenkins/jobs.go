// Copyright 2021 The go-jenkins AUTHORS. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/pkg/errors"
)

// jobListResponse mirrors the subset of Jenkins' /api/json job-list
// response this client cares about.
type jobListResponse struct {
	Jobs []struct {
		Name string `json:"name"`
	} `json:"jobs"`
}

// ListJobNames returns the names of every job known to Jenkins.
func (c *Client) ListJobNames(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, "/api/json?tree=jobs[name]")
	if err != nil {
		return nil, errors.Wrap(err, "jenkins: list jobs")
	}
	defer closeBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "jenkins: read job list")
	}

	var parsed jobListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, errors.Wrap(err, "jenkins: decode job list")
	}

	names := make([]string, 0, len(parsed.Jobs))
	for _, j := range parsed.Jobs {
		names = append(names, j.Name)
	}
	return names, nil
}

// GetJobConfig returns the raw config.xml of the named job.
func (c *Client) GetJobConfig(ctx context.Context, name string) (string, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/job/%s/config.xml", url.PathEscape(name)))
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return "", ErrJobNotFound
		}
		return "", errors.Wrapf(err, "jenkins: get config for job %q", name)
	}
	defer closeBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "jenkins: read config for job %q", name)
	}

	return string(body), nil
}

// CreateJob creates a new job named name with the given config.xml body.
func (c *Client) CreateJob(ctx context.Context, name string, configXML []byte) error {
	query := fmt.Sprintf("/createItem?name=%s", url.QueryEscape(name))
	if _, err := c.postXML(ctx, query, configXML); err != nil {
		return errors.Wrapf(err, "jenkins: create job %q", name)
	}
	return nil
}

// ReconfigureJob replaces the config.xml of an existing job.
func (c *Client) ReconfigureJob(ctx context.Context, name string, configXML []byte) error {
	query := fmt.Sprintf("/job/%s/config.xml", url.PathEscape(name))
	if _, err := c.postXML(ctx, query, configXML); err != nil {
		return errors.Wrapf(err, "jenkins: reconfigure job %q", name)
	}
	return nil
}

// DeleteJob deletes the named job.
func (c *Client) DeleteJob(ctx context.Context, name string) error {
	query := fmt.Sprintf("/job/%s/doDelete", url.PathEscape(name))
	if _, err := c.postForm(ctx, query, url.Values{}); err != nil {
		return errors.Wrapf(err, "jenkins: delete job %q", name)
	}
	return nil
}

// ErrJobNotFound is returned by GetJobConfig when no such job exists.
var ErrJobNotFound = errors.New("jenkins: job not found")
