// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 pssh Contributors

package plugin

import (
	"context"
	"unsafe"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/pssh/pssh/internal/abi"
	"github.com/pssh/pssh/internal/hostapi"
	"github.com/pssh/pssh/internal/marshal"
	"github.com/pssh/pssh/internal/sshconfig"
)

var _ = Describe("Runtime", func() {
	var (
		api  *hostapi.API
		ctx  context.Context
		host *sshconfig.Host
	)

	BeforeEach(func() {
		api = hostapi.New()
		ctx = context.Background()
		host = &sshconfig.Host{Name: "example_host", HostName: sshconfig.String("127.0.0.1"), Other: map[string]string{}}
	})

	Describe("Select", func() {
		It("falls back to ssh <name> with no plugins", func() {
			res := NewRuntime(api, nil).Select(ctx, host)

			Expect(res.Overridden).To(BeFalse())
			Expect(res.Command(host)).To(Equal("ssh example_host"))
		})

		It("falls back when every plugin returns null", func() {
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("a", &fakeEntrypoints{}),
				fakePlugin("b", &fakeEntrypoints{}),
			})

			Expect(rt.Select(ctx, host).Command(host)).To(Equal("ssh example_host"))
		})

		It("joins the override with single spaces", func() {
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("custom_ssh_args", &fakeEntrypoints{onSelect: returning(api, "cat", "/etc/os-release")}),
			})

			res := rt.Select(ctx, host)
			Expect(res.Overridden).To(BeTrue())
			Expect(res.Source).To(Equal("custom_ssh_args"))
			Expect(res.Args).To(Equal([]string{"cat", "/etc/os-release"}))
			Expect(res.Command(host)).To(Equal("cat /etc/os-release"))
		})

		It("keeps the last plugin's override", func() {
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("first", &fakeEntrypoints{onSelect: returning(api, "A")}),
				fakePlugin("second", &fakeEntrypoints{onSelect: returning(api, "B")}),
			})

			res := rt.Select(ctx, host)
			Expect(res.Command(host)).To(Equal("B"))
			Expect(res.Source).To(Equal("second"))
		})

		It("treats a later null as no opinion", func() {
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("first", &fakeEntrypoints{onSelect: returning(api, "A")}),
				fakePlugin("silent", &fakeEntrypoints{}),
			})

			res := rt.Select(ctx, host)
			Expect(res.Command(host)).To(Equal("A"))
			Expect(res.Source).To(Equal("first"))
		})

		It("destroys every returned list, including discarded ones", func() {
			var lists []abi.List
			capture := func(args ...string) func(*abi.Host) abi.List {
				inner := returning(api, args...)
				return func(h *abi.Host) abi.List {
					l := inner(h)
					lists = append(lists, l)
					return l
				}
			}
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("first", &fakeEntrypoints{onSelect: capture("A")}),
				fakePlugin("second", &fakeEntrypoints{onSelect: capture("B")}),
			})

			rt.Select(ctx, host)

			Expect(lists).To(HaveLen(2))
			for _, l := range lists {
				_, err := api.ListLen(l)
				Expect(err).To(HaveOccurred())
			}
		})

		It("ignores a list that does not decode", func() {
			bad := func(*abi.Host) abi.List {
				l := api.CreateList()
				b := []byte{0xff}
				Expect(api.AppendToList(l, &b[0], 1)).To(Succeed())
				return l
			}
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("good", &fakeEntrypoints{onSelect: returning(api, "A")}),
				fakePlugin("bad", &fakeEntrypoints{onSelect: bad}),
			})

			res := rt.Select(ctx, host)
			Expect(res.Command(host)).To(Equal("A"))
		})

		It("ignores a handle that is not a live list", func() {
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("forger", &fakeEntrypoints{onSelect: func(*abi.Host) abi.List { return abi.List(0xbad3) }}),
			})

			Expect(rt.Select(ctx, host).Overridden).To(BeFalse())
		})

		It("hands plugins a readable view of the host", func() {
			var seen string
			var hostName *string
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("reader", &fakeEntrypoints{onSelect: func(h *abi.Host) abi.List {
					var err error
					seen, err = marshal.ReadString("name", h.Name, h.NameLen)
					Expect(err).NotTo(HaveOccurred())
					hostName, err = marshal.ReadOptionalString("host_name", h.HostName, h.HostNameLen)
					Expect(err).NotTo(HaveOccurred())
					return abi.NullList
				}}),
			})

			rt.Select(ctx, host)

			Expect(seen).To(Equal("example_host"))
			Expect(hostName).To(HaveValue(Equal("127.0.0.1")))
		})

		It("counts outcomes per plugin", func() {
			metrics := NewMetrics(prometheus.NewRegistry())
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("a", &fakeEntrypoints{onSelect: returning(api, "A")}),
				fakePlugin("b", &fakeEntrypoints{}),
			}, WithRuntimeMetrics(metrics))

			rt.Select(ctx, host)

			Expect(promtest.ToFloat64(metrics.SelectOutcomes.WithLabelValues("a", outcomeOverride))).To(Equal(1.0))
			Expect(promtest.ToFloat64(metrics.SelectOutcomes.WithLabelValues("b", outcomeNone))).To(Equal(1.0))
			Expect(promtest.ToFloat64(metrics.CallsTotal.WithLabelValues("b", abi.SymbolOnItemSelect))).To(Equal(1.0))
		})
	})

	Describe("Inspect", func() {
		appendNamed := func(name string) func(abi.HostConfig) {
			return func(cfg abi.HostConfig) {
				rec := &abi.Host{Name: unsafe.StringData(name), NameLen: uintptr(len(name))}
				Expect(api.AppendHost(cfg, rec)).To(Succeed())
			}
		}

		It("runs plugins in load order against the live config", func() {
			cfg := &sshconfig.Config{}
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("one", &fakeEntrypoints{inspect: appendNamed("first")}),
				fakePlugin("two", &fakeEntrypoints{inspect: appendNamed("second")}),
			})

			rt.Inspect(ctx, cfg)

			Expect(cfg.Names()).To(Equal([]string{"first", "second"}))
		})

		It("adds the Additional host the way add-entry does", func() {
			cfg := &sshconfig.Config{}
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("add_entry", &fakeEntrypoints{inspect: func(h abi.HostConfig) {
					name, target := "Additional", "plugin.example.com"
					rec := &abi.Host{
						Name:        unsafe.StringData(name),
						NameLen:     uintptr(len(name)),
						HostName:    unsafe.StringData(target),
						HostNameLen: uintptr(len(target)),
					}
					Expect(api.AppendHost(h, rec)).To(Succeed())
				}}),
			})

			rt.Inspect(ctx, cfg)

			Expect(cfg.Hosts).To(HaveLen(1))
			Expect(cfg.Hosts[0].HostName).To(HaveValue(Equal("plugin.example.com")))
			Expect(cfg.Hosts[0].User).To(BeNil())
		})

		It("detaches the config afterwards", func() {
			var kept abi.HostConfig
			rt := NewRuntime(api, []*Plugin{
				fakePlugin("hoarder", &fakeEntrypoints{inspect: func(h abi.HostConfig) { kept = h }}),
			})

			rt.Inspect(ctx, &sshconfig.Config{Hosts: []sshconfig.Host{{Name: "x"}}})

			Expect(api.HostsLen(kept)).To(BeZero())
		})
	})
})
