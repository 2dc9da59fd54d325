package main

import (
	"reflect"
	"testing"
)

func TestRewriteProjectShortcutArgs(t *testing.T) {
	cases := []struct {
		in   []string
		want []string
	}{
		{[]string{"planboard"}, []string{"planboard"}},
		{[]string{"planboard", "12"}, []string{"planboard", "gantt", "12"}},
		{[]string{"planboard", "--format", "yaml", "12", "--chart"}, []string{"planboard", "--format", "yaml", "gantt", "12", "--chart"}},
		{[]string{"planboard", "--pretty", "7"}, []string{"planboard", "--pretty", "gantt", "7"}},
		{[]string{"planboard", "projects", "list"}, []string{"planboard", "projects", "list"}},
		{[]string{"planboard", "--api", "42", "projects"}, []string{"planboard", "--api", "42", "projects"}},
		{[]string{"planboard", "--", "9"}, []string{"planboard", "gantt", "--", "9"}},
	}
	for _, c := range cases {
		if got := rewriteProjectShortcutArgs(c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("rewrite(%v): expected %v; got %v", c.in, c.want, got)
		}
	}
}
