// Copyright 2021 The go-jenkins AUTHORS. All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jenkins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type JobsSuite struct {
	mux    *http.ServeMux
	server *httptest.Server

	suite.Suite
}

func (s *JobsSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.mux.HandleFunc(crumbURL, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"crumbRequestField":"crumb", "crumb":"crumb"}`))
	})
}

func (s *JobsSuite) TearDownTest() {
	s.server.Close()
}

func TestJobsSuite(t *testing.T) {
	suite.Run(t, new(JobsSuite))
}

func (s *JobsSuite) client() *Client {
	c, err := NewClient(WithBaseURL(s.server.URL))
	require.NoError(s.T(), err)
	return c
}

func (s *JobsSuite) TestListJobNames() {
	s.mux.HandleFunc("/api/json", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("GET", r.Method)
		_, _ = w.Write([]byte(`{"jobs":[{"name":"foo"},{"name":"bar"}]}`))
	})

	names, err := s.client().ListJobNames(context.Background())
	s.NoError(err)
	s.Equal([]string{"foo", "bar"}, names)
}

func (s *JobsSuite) TestGetJobConfig() {
	s.mux.HandleFunc("/job/foo/config.xml", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<project></project>`))
	})

	cfg, err := s.client().GetJobConfig(context.Background(), "foo")
	s.NoError(err)
	s.Equal(`<project></project>`, cfg)
}

func (s *JobsSuite) TestGetJobConfigNotFound() {
	s.mux.HandleFunc("/job/missing/config.xml", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := s.client().GetJobConfig(context.Background(), "missing")
	s.ErrorIs(err, ErrJobNotFound)
}

func (s *JobsSuite) TestCreateJob() {
	s.mux.HandleFunc("/createItem", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("foo", r.URL.Query().Get("name"))
		s.Equal("application/xml", r.Header.Get("Content-Type"))
	})

	err := s.client().CreateJob(context.Background(), "foo", []byte(`<project></project>`))
	s.NoError(err)
}

func (s *JobsSuite) TestReconfigureJob() {
	s.mux.HandleFunc("/job/foo/config.xml", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			return
		}
	})

	err := s.client().ReconfigureJob(context.Background(), "foo", []byte(`<project></project>`))
	s.NoError(err)
}

func (s *JobsSuite) TestDeleteJob() {
	s.mux.HandleFunc("/job/foo/doDelete", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("POST", r.Method)
	})

	err := s.client().DeleteJob(context.Background(), "foo")
	s.NoError(err)
}
