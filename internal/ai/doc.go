// Shortlist - Budget-Aware Catalog Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shortlist

/*
Package ai ranks a shortlist of catalog items with a generative model.

The package has three parts:

  - Prompt: a compact, line-per-item prompt built from the shortlist and the
    user's household, preferences and allergies (BuildPrompt).
  - Ranker: calls a Generator with a bounded retry loop and maps every
    failure onto a recommend.Error kind (Ranker).
  - Parser: extracts JSON from free-form model text, repairs known model
    defects, validates the schema and joins item codes back to the
    shortlist (ParseResponse, Join).

Model output is untrusted. Only items present in the shortlist handed to
Rank can appear in its result; anything else the model names is dropped.

Generators:

GeminiGenerator talks to the Gemini API through
github.com/google/generative-ai-go. Tests use a scripted Generator.
*/
package ai
