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
	"bufio"
	"fmt"
	"io"
	"strings"
)

// splitBrackets breaks [ and ] out of a token into their own words so the
// directive grammar can treat them as delimiters regardless of spacing
func splitBrackets(s string, delim byte) []string {
	var out []string
	for {
		index := strings.IndexByte(s, delim)
		if index < 0 {
			if len(s) > 0 {
				out = append(out, s)
			}
			return out
		}
		if index > 0 {
			out = append(out, s[:index])
		}
		out = append(out, s[index:index+1])
		s = s[index+1:]
	}
}

func makeWords(s string) []string {
	var out []string
	for _, part := range splitBrackets(s, '[') {
		out = append(out, splitBrackets(part, ']')...)
	}
	return out
}

// readWords tokenizes whitespace-separated directive words from a reader
func readWords(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		out = append(out, makeWords(scanner.Text())...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// wordReader consumes directive words in order
type wordReader struct {
	words []string
}

func (wr *wordReader) empty() bool {
	return len(wr.words) == 0
}

func (wr *wordReader) peek() string {
	if len(wr.words) == 0 {
		return ""
	}
	return wr.words[0]
}

func (wr *wordReader) next() string {
	word := wr.words[0]
	wr.words = wr.words[1:]
	return word
}

// skipComments drops words between // pairs
func (wr *wordReader) skipComments() error {
	for !wr.empty() && wr.peek() == "//" {
		wr.next()
		for {
			if wr.empty() {
				return fmt.Errorf("the final comment is incomplete")
			}
			if wr.next() == "//" {
				break
			}
		}
	}
	return nil
}

// singleValue consumes a prefix word and returns the value word after it
func (wr *wordReader) singleValue() (string, error) {
	prefix := wr.next()
	if wr.empty() {
		return "", fmt.Errorf("the final %s parameter is incomplete", prefix)
	}
	return wr.next(), nil
}

func unescapeString(s string) string {
	s = strings.ReplaceAll(s, `\"`, `"`)
	return strings.ReplaceAll(s, `\\`, `\`)
}

// stringValue reads a possibly-quoted string. A leading double quote joins
// words (with single spaces) until one ends with a closing quote.
func (wr *wordReader) stringValue() (string, error) {
	if wr.empty() {
		return "", fmt.Errorf("the final string parameter is incomplete")
	}
	word := wr.next()
	if !strings.HasPrefix(word, `"`) {
		return word, nil
	}
	if strings.HasSuffix(word, `"`) && len(word) > 1 {
		return unescapeString(word[1 : len(word)-1]), nil
	}
	var sb strings.Builder
	sb.WriteString(unescapeString(word[1:]))
	for {
		if wr.empty() {
			return "", fmt.Errorf("the final string parameter is incomplete")
		}
		word = wr.next()
		sb.WriteByte(' ')
		if strings.HasSuffix(word, `"`) {
			sb.WriteString(unescapeString(word[:len(word)-1]))
			return sb.String(), nil
		}
		sb.WriteString(unescapeString(word))
	}
}
