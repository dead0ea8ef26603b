package etudes

import (
	"fmt"

	"etude/internal/fetch"
)

// One is a sample content section: a daily quote, a sample todo item, and a
// fixed greeting.
type One struct{}

func (One) Name() string { return "one" }

func (One) Description() string {
	return "Sample etude demonstrating daily data aggregation."
}

func (One) DailyResources() []fetch.Resource {
	return []fetch.Resource{
		{Name: "random_quote", Fetcher: mustURLFetcher("https://api.quotable.io/random")},
		{Name: "sample_todo", Fetcher: mustURLFetcher("https://jsonplaceholder.typicode.com/todos/1")},
		{Name: "greeting", Fetcher: fetch.NewStaticFetcher(map[string]any{
			"message": "Hello from etude one!",
			"version": "0.1",
		})},
	}
}

// mustURLFetcher is for compile-time constant addresses only.
func mustURLFetcher(url string) *fetch.URLFetcher {
	f, err := fetch.NewURLFetcher(url)
	if err != nil {
		panic(fmt.Sprintf("invalid builtin resource URL: %v", err))
	}
	return f
}
