package browser

import (
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// configNames maps CDP resource types to their plural configuration names.
var configNames = map[string]string{
	"image": "images",
	"font":  "fonts",
	"media": "media",
}

// required types are always loaded: the form is built from documents,
// scripts and XHR, and visibility needs computed styles.
var required = map[string]bool{
	"document":   true,
	"stylesheet": true,
	"script":     true,
	"xhr":        true,
	"fetch":      true,
}

// blockResources hijacks the tab's requests and fails those of the listed
// types. The returned router must be stopped when the tab closes.
func blockResources(page *rod.Page, types []string) (*rod.HijackRouter, error) {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[strings.ToLower(strings.TrimSpace(t))] = true
	}

	router := page.HijackRequests()
	err := router.Add("*", "", func(h *rod.Hijack) {
		if shouldBlock(set, string(h.Request.Type())) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})
	if err != nil {
		return nil, err
	}
	go router.Run()
	return router, nil
}

func shouldBlock(set map[string]bool, resType string) bool {
	t := strings.ToLower(resType)
	if required[t] {
		return false
	}
	if name, ok := configNames[t]; ok {
		return set[name]
	}
	return set[t]
}
