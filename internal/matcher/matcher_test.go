package matcher_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/channel-proxy/internal/matcher"
)

type item struct {
	id    string
	title string
}

func titleOf(i item) string { return i.title }

var _ = Describe("Matcher", func() {
	titles := []string{"Go Tutorials", "Python Basics", "Cooking Shows", "Live Streams", "Go Tutorial Extras"}

	Describe("Filter", func() {
		items := []item{
			{"PL1", "Go Tutorials"},
			{"PL2", "Python Basics"},
			{"PL3", "Go Tutorial Extras"},
		}

		It("should match substrings case-insensitively", func() {
			matched := matcher.Filter("TUTORIAL", items, titleOf)
			Expect(matched).To(Equal([]item{{"PL1", "Go Tutorials"}, {"PL3", "Go Tutorial Extras"}}))
		})

		It("should keep the original titles", func() {
			matched := matcher.Filter("python", items, titleOf)
			Expect(matched).To(HaveLen(1))
			Expect(matched[0].title).To(Equal("Python Basics"))
		})

		It("should return nothing when no title contains the query", func() {
			Expect(matcher.Filter("cooking", items, titleOf)).To(BeEmpty())
		})

		It("should match everything for an empty query", func() {
			Expect(matcher.Filter("", items, titleOf)).To(HaveLen(3))
		})
	})

	Describe("Suggest", func() {
		DescribeTable("close matches",
			func(query string, expected []string) {
				Expect(matcher.Suggest(query, titles, 3, 0.6)).To(Equal(expected))
			},
			Entry("typo in a title", "go tutorals", []string{"go tutorials", "go tutorial extras"}),
			Entry("transposed letters", "pyhton basic", []string{"python basics"}),
			Entry("prefix", "cooking", []string{"cooking shows"}),
			Entry("nothing similar", "zzzz", []string{}),
		)

		It("should break score ties by title, descending", func() {
			suggestions := matcher.Suggest("abcd", []string{"abce", "abcf", "abcg", "abch"}, 3, 0.6)
			Expect(suggestions).To(Equal([]string{"abch", "abcg", "abcf"}))
		})

		It("should honour the limit", func() {
			suggestions := matcher.Suggest("abcd", []string{"abce", "abcf", "abcg", "abch"}, 2, 0.5)
			Expect(suggestions).To(Equal([]string{"abch", "abcg"}))
		})

		It("should compare case-insensitively", func() {
			Expect(matcher.Suggest("LIVE STREAM", titles, 3, 0.6)).To(Equal([]string{"live streams"}))
		})

		It("should fall back to defaults for out-of-range arguments", func() {
			Expect(matcher.Suggest("go tutorals", titles, 0, 7)).To(Equal([]string{"go tutorials", "go tutorial extras"}))
		})

		It("should return an empty list without titles", func() {
			Expect(matcher.Suggest("anything", nil, 3, 0.6)).To(BeEmpty())
		})
	})
})
