// Copyright 2026 Blink Labs Software
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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/blinklabs-io/soltx/keys"
	"github.com/blinklabs-io/soltx/schema"
	"github.com/blinklabs-io/soltx/tx"
)

func runDecode(args []string) error {
	flagset := flag.NewFlagSet("decode", flag.ExitOnError)
	schemaDir := flagset.String(
		"schemas",
		"",
		"directory of instruction schema files used to decode data fields",
	)
	schemaFile := flagset.String(
		"schema",
		"",
		"single schema file, takes precedence over -schemas",
	)
	if err := flagset.Parse(args); err != nil {
		return err
	}

	var lookup func(keys.Pubkey) *schema.Schema
	if *schemaFile != "" {
		s, err := schema.LoadFile(*schemaFile)
		if err != nil {
			return err
		}
		lookup = func(keys.Pubkey) *schema.Schema {
			return s
		}
	} else if *schemaDir != "" {
		registry, err := schema.LoadRegistry(*schemaDir)
		if err != nil {
			return err
		}
		lookup = registry.Lookup
	}

	decoded, err := tx.Decode(os.Stdin)
	if err != nil {
		return err
	}
	out, err := json.Marshal(decoded.Summary(lookup))
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
