package utils

import (
	"sort"
	"strconv"
)

type TopicCount struct {
	Topic string
	Count uint64
}

// SortTopicsByCount sorts topics by count (descending), then by topic (ascending)
func SortTopicsByCount(messagesByTopic map[string]uint64) []TopicCount {
	var topicCounts []TopicCount
	for topic, count := range messagesByTopic {
		topicCounts = append(topicCounts, TopicCount{Topic: topic, Count: count})
	}

	// Sort by count descending, then by topic ascending
	sort.Slice(topicCounts, func(i, j int) bool {
		if topicCounts[i].Count == topicCounts[j].Count {
			return topicCounts[i].Topic < topicCounts[j].Topic
		}
		return topicCounts[i].Count > topicCounts[j].Count
	})

	return topicCounts
}

// FormatNumber formats a number with comma separators for readability
func FormatNumber(n uint64) string {
	str := strconv.FormatUint(n, 10)
	if len(str) <= 3 {
		return str
	}

	result := ""
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(c)
	}
	return result
}
