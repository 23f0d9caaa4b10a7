// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package sshconfig_test

import (
	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/pssh/pssh/internal/sshconfig"
)

var _ = Describe("Parse", func() {
	It("parses a single host", func() {
		cfg, err := sshconfig.Parse("Host example_host\n" +
			"            HostName example.com\n" +
			"        \tUser example_user\n" +
			"        ")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(Equal([]sshconfig.Host{{
			Name:     "example_host",
			HostName: sshconfig.String("example.com"),
			User:     sshconfig.String("example_user"),
			Other:    map[string]string{},
		}}))
		Expect(cfg.GlobalOptions).To(BeEmpty())
	})

	It("skips comments inside host blocks", func() {
		cfg, err := sshconfig.Parse(`
Host foo
    # This is my comment
    HostName example.com
    #User example_user
    User exampler
        `)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(HaveLen(1))
		Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("example.com")))
		Expect(cfg.Hosts[0].User).To(HaveValue(Equal("exampler")))
	})

	It("collects global options", func() {
		cfg, err := sshconfig.Parse("\n" +
			"StrictHostKeyChecking no\n" +
			"IdentityFile ~/.ssh/my_identity\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(BeEmpty())
		Expect(cfg.GlobalOptions).To(Equal(map[string]string{
			"StrictHostKeyChecking": "no",
			"IdentityFile":          "~/.ssh/my_identity",
		}))
	})

	It("skips global comments and blank lines", func() {
		cfg, err := sshconfig.Parse(`# StrictHostKeyChecking no
#alamakota

Host foo
    HostName bar
#misformatted comment
    User foobar
    `)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GlobalOptions).To(BeEmpty())
		Expect(cfg.Hosts).To(Equal([]sshconfig.Host{{
			Name:     "foo",
			HostName: sshconfig.String("bar"),
			User:     sshconfig.String("foobar"),
			Other:    map[string]string{},
		}}))
	})

	It("parses several hosts and keeps unknown keys", func() {
		cfg, err := sshconfig.Parse(`
Host example_host
    HostName example.com
	User example_user

Host subexample 
	HostName 198.0.90.242
	User bob
    Port 9082
    IdentityFile ~/.ssh/subexample.key

`)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Names()).To(Equal([]string{"example_host", "subexample"}))
		Expect(cfg.Hosts[1].Other).To(Equal(map[string]string{
			"Port":         "9082",
			"IdentityFile": "~/.ssh/subexample.key",
		}))
	})

	It("matches HostName and User case-insensitively", func() {
		cfg, err := sshconfig.Parse("Host a\n  hostname a.example.com\n  USER root\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("a.example.com")))
		Expect(cfg.Hosts[0].User).To(HaveValue(Equal("root")))
		Expect(cfg.Hosts[0].Other).To(BeEmpty())
	})

	It("joins multi-word values", func() {
		cfg, err := sshconfig.Parse("Host jump\n  ProxyCommand ssh -W %h:%p bastion\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts[0].Other).To(HaveKeyWithValue("ProxyCommand", "ssh -W %h:%p bastion"))
	})

	It("keeps every pattern of a Host line in the name", func() {
		cfg, err := sshconfig.Parse("Host *.example.com !bad.example.com\n  User ops\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts[0].Name).To(Equal("*.example.com !bad.example.com"))
	})

	It("accepts CRLF line endings", func() {
		cfg, err := sshconfig.Parse("Host win\r\n  HostName win.example.com\r\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts[0].Name).To(Equal("win"))
		Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("win.example.com")))
	})

	It("accepts empty input", func() {
		cfg, err := sshconfig.Parse("")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(BeEmpty())
	})

	It("treats host inside a value as a plain word", func() {
		cfg, err := sshconfig.Parse("Host a\n  LocalCommand echo host up\n  HostName a.example.com\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(HaveLen(1))
		Expect(cfg.Hosts[0].Other).To(HaveKeyWithValue("LocalCommand", "echo host up"))
		Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("a.example.com")))
	})

	It("accepts = between key and value", func() {
		cfg, err := sshconfig.Parse("Host=a\n  HostName=example.com\n  User = bob\n  Port\t= 2222\n  LocalCommand=env FOO=bar\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(Equal([]sshconfig.Host{{
			Name:     "a",
			HostName: sshconfig.String("example.com"),
			User:     sshconfig.String("bob"),
			Other: map[string]string{
				"Port":         "2222",
				"LocalCommand": "env FOO=bar",
			},
		}}))
	})

	It("skips Match blocks", func() {
		cfg, err := sshconfig.Parse(`
Compression yes

Match host foo
  User bob

Host real
  HostName real.example.com

match exec "true"
  Port 2200
`)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.GlobalOptions).To(Equal(map[string]string{"Compression": "yes"}))
		Expect(cfg.Hosts).To(Equal([]sshconfig.Host{{
			Name:     "real",
			HostName: sshconfig.String("real.example.com"),
			Other:    map[string]string{},
		}}))
	})

	It("accepts a file holding only a Match block", func() {
		cfg, err := sshconfig.Parse("Match host foo\n  User bob\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(BeEmpty())
		Expect(cfg.GlobalOptions).To(BeEmpty())
	})

	It("does not mistake HostName for a Host line", func() {
		cfg, err := sshconfig.Parse("Host a\n  HostName host\n")
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Hosts).To(HaveLen(1))
		Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("host")))
	})

	It("rejects an option without a value", func() {
		_, err := sshconfig.Parse("Host a\n  ForwardAgent\n")
		Expect(err).To(HaveOccurred())
	})
})
