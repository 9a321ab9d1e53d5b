// Copyright 2026 cloudmorph LLC
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
	"context"
	"fmt"
	"os"

	// Register the built-in source providers and transforms.
	_ "github.com/cloudmorph/cloudmorph/pkg/source/github"
	_ "github.com/cloudmorph/cloudmorph/pkg/source/local"
	_ "github.com/cloudmorph/cloudmorph/pkg/source/s3"
	_ "github.com/cloudmorph/cloudmorph/pkg/transforms/tagger"
)

func main() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
