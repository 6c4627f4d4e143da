// Package report publishes the results of completed count runs.
//
// Two reporters are provided, both implementing count.Reporter:
//
//   - [Writer] prints the "<keyspace>.<table>: <count>" line to an io.Writer
//   - [NATS] stores a MessagePack [Record] in a NATS JetStream key-value bucket under
//     the key "<keyspace>.<table>", so the latest count of every table can be read
//     back by other services
//
// # NATS Usage
//
//	nc, _ := nats.Connect("nats://localhost:4222")
//	js, _ := jetstream.New(nc)
//	kv, _ := report.OpenBucket(ctx, js, "table-counts")
//
//	publisher, _ := report.NewNATS(kv)
//	counter, _ := count.New(cfg, count.WithReporter(publisher))
//
// Reading the latest count of a table:
//
//	rec, err := publisher.Latest(ctx, "shop", "orders")
package report
