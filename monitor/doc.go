// Package monitor aggregates call metrics reported by the metrics
// interceptor.
//
//	collector := monitor.NewCallMetrics()
//	interceptors.Metrics(hooks.MustTo(serviceType), "fetch", collector)
//	...
//	summary := collector.Summary()
//	log.Println(summary.Members["Service.fetch"].P95)
package monitor
