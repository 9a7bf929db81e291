// Package session runs BAPI calls.
//
// A Configuration collects the BAPI types and interceptors of one session
// factory definition and builds an immutable SessionFactory, which maps
// every type up front. Sessions opened from the factory execute calls over
// one connection of the configured execution context:
//
//	sf, err := session.New(cfg).
//		AddAnnotatedType(&FlightList{}).
//		BuildSessionFactory()
//	...
//	s, err := sf.OpenSession(ctx)
//	...
//	defer s.Close()
//	err = s.Execute(ctx, &FlightList{Airline: "LH"})
package session
