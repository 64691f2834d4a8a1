package kafka

// TopicPrefix namespaces every topic this service writes to.
const TopicPrefix = "counterdesk"

// Topic builds "<prefix>.<domain>.<action>".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}
