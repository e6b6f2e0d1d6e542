// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

// 📐 hclConfig is the HCL schema, blocks are optional
type hclConfig struct {
	Strategy  *string `hcl:"strategy,optional"`
	Selection *struct {
		Extensions []string `hcl:"extensions,optional"`
		LockPrefix *string  `hcl:"lock_prefix,optional"`
		Ignore     []string `hcl:"ignore,optional"`
	} `hcl:"selection,block"`
	Pagination *struct {
		CharsPerPage *int `hcl:"chars_per_page,optional"`
	} `hcl:"pagination,block"`
	TOC *struct {
		Title              *string  `hcl:"title,optional"`
		Font               *string  `hcl:"font,optional"`
		TitleSize          *float64 `hcl:"title_size,optional"`
		EntrySize          *float64 `hcl:"entry_size,optional"`
		TabStop            *float64 `hcl:"tab_stop,optional"`
		StructuralFallback *bool    `hcl:"structural_fallback,optional"`
	} `hcl:"toc,block"`
	Host *struct {
		CallTimeout   *string `hcl:"call_timeout,optional"`
		TerminateWait *string `hcl:"terminate_wait,optional"`
		Converter     *string `hcl:"converter,optional"`
		OfficeBinary  *string `hcl:"office_binary,optional"`
	} `hcl:"host,block"`
}

// loadHCL loads a configuration from HCL data
func loadHCL(data []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	setString(&cfg.Strategy, raw.Strategy)
	if s := raw.Selection; s != nil {
		cfg.Selection.Extensions = s.Extensions
		cfg.Selection.Ignore = s.Ignore
		setString(&cfg.Selection.LockPrefix, s.LockPrefix)
	}
	if p := raw.Pagination; p != nil && p.CharsPerPage != nil {
		cfg.Pagination.CharsPerPage = *p.CharsPerPage
	}
	if t := raw.TOC; t != nil {
		setString(&cfg.TOC.Title, t.Title)
		setString(&cfg.TOC.Font, t.Font)
		setFloat(&cfg.TOC.TitleSize, t.TitleSize)
		setFloat(&cfg.TOC.EntrySize, t.EntrySize)
		setFloat(&cfg.TOC.TabStop, t.TabStop)
		cfg.TOC.StructuralFallback = t.StructuralFallback
	}
	if h := raw.Host; h != nil {
		setString(&cfg.Host.CallTimeout, h.CallTimeout)
		setString(&cfg.Host.TerminateWait, h.TerminateWait)
		setString(&cfg.Host.Converter, h.Converter)
		setString(&cfg.Host.OfficeBinary, h.OfficeBinary)
	}

	return cfg, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
