package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"bapi-mapper/config"
	"bapi-mapper/execution"
	"bapi-mapper/execution/memory"
)

type returnMessage struct {
	_ struct{} `sap:",structure"`

	Type    string `sap:"TYPE" validate:"omitempty,oneof=S W E"`
	Message string `sap:"MESSAGE"`
}

type paging struct {
	MaxRows int `sap:"MAX_ROWS,import" validate:"gte=0"`
}

type customerRow struct {
	_ struct{} `sap:",structure"`

	ID   string `sap:"CUSTOMER_ID,convert=trim"`
	Name string `sap:"NAME"`
}

type customerList struct {
	_ struct{} `sap:"BAPI_CUSTOMER_GETLIST,bapi"`
	paging

	Country   string        `sap:"COUNTRY,import" validate:"required,len=2"`
	Customers []customerRow `sap:"CUSTOMERS,table"`
	Total     int           `sap:"TOTAL,export" validate:"gte=1"`
	Return    returnMessage `sap:"RETURN,export"`
}

type commit struct {
	_ struct{} `sap:"BAPI_TRANSACTION_COMMIT,bapi"`

	Wait bool `sap:"WAIT,import,convert=boolean"`
}

type notMapped struct {
	Value string
}

type brokenCall struct {
	_ struct{} `sap:"BROKEN,bapi"`

	Rows []customerRow `sap:"ROWS,import"`
}

type recorder struct {
	name  string
	trace *[]string
	err   error
}

func (r recorder) BeforeExecution(_ context.Context, call *Call) error {
	*r.trace = append(*r.trace, r.name+" before "+call.Mapping.Name())
	return r.err
}

func (r recorder) AfterExecution(_ context.Context, call *Call) error {
	*r.trace = append(*r.trace, r.name+" after "+call.Function.Name)
	return nil
}

func customerHandler(_ context.Context, fn *execution.Function) error {
	rows := execution.Table{
		{"CUSTOMER_ID": "0001  ", "NAME": "Lufthansa"},
		{"CUSTOMER_ID": "0002", "NAME": "Condor"},
	}

	fn.Tables["CUSTOMERS"] = rows
	fn.Exports["TOTAL"] = len(rows)
	fn.Exports["RETURN"] = execution.Structure{"TYPE": "S", "MESSAGE": "country " + fn.Imports["COUNTRY"].(string)}

	return nil
}

func newFactory(t *testing.T, mode string, opts ...Option) (*SessionFactory, *memory.Context) {
	t.Helper()

	mem := memory.New()
	mem.Handle("BAPI_CUSTOMER_GETLIST", customerHandler)
	mem.Handle("BAPI_TRANSACTION_COMMIT", func(context.Context, *execution.Function) error { return nil })

	opts = append(opts, WithContext(mem))

	sf, err := New(config.SessionFactory{Name: "test", ValidationMode: mode}, opts...).
		AddAnnotatedType(&customerList{}).
		AddAnnotatedType(commit{}).
		BuildSessionFactory()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sf.Close() })

	return sf, mem
}

func TestSession_Execute(t *testing.T) {
	ctx := context.Background()
	sf, mem := newFactory(t, config.ValidationAuto)

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	defer s.Close()

	bapi := &customerList{Country: "DE", paging: paging{MaxRows: 10}}
	require.NoError(t, s.Execute(ctx, bapi))

	assert.Equal(t, 2, bapi.Total)
	assert.Equal(t, "country DE", bapi.Return.Message)
	assert.Equal(t, []customerRow{{ID: "0001", Name: "Lufthansa"}, {ID: "0002", Name: "Condor"}}, bapi.Customers)

	calls := mem.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, execution.ParameterList{"COUNTRY": "DE", "MAX_ROWS": 10}, calls[0].Imports)

	require.NoError(t, s.Execute(ctx, &commit{Wait: true}))
	assert.Equal(t, "X", mem.Calls()[1].Imports["WAIT"])
}

func TestSession_ExecuteErrors(t *testing.T) {
	ctx := context.Background()
	sf, mem := newFactory(t, config.ValidationAuto)

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	err = s.Execute(ctx, customerList{Country: "DE"})
	assert.ErrorIs(t, err, ErrNotPointer)

	err = s.Execute(ctx, (*customerList)(nil))
	assert.ErrorIs(t, err, ErrNotPointer)

	err = s.Execute(ctx, &notMapped{})
	assert.ErrorIs(t, err, ErrNotRegistered)
	assert.Contains(t, err.Error(), "session.notMapped")

	mem.Handle("BAPI_TRANSACTION_COMMIT", func(context.Context, *execution.Function) error {
		return errors.New("lock table overflow")
	})

	err = s.Execute(ctx, &commit{})
	assert.EqualError(t, err, "execute BAPI_TRANSACTION_COMMIT: lock table overflow")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 0, mem.OpenConnections())

	err = s.Execute(ctx, &commit{})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestSession_Validation(t *testing.T) {
	ctx := context.Background()
	sf, mem := newFactory(t, config.ValidationCallback)

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	defer s.Close()

	// TOTAL is an export and is only checked after the call
	err = s.Execute(ctx, &customerList{Country: "Germany"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "before calling BAPI_CUSTOMER_GETLIST")
	assert.Contains(t, err.Error(), "COUNTRY must be 2 characters in length")
	assert.NotContains(t, err.Error(), "TOTAL")
	assert.Empty(t, mem.Calls(), "nothing is executed after a failed check")

	err = s.Execute(ctx, &customerList{Country: "DE", paging: paging{MaxRows: -1}})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "MAX_ROWS must be 0 or greater")

	mem.Handle("BAPI_CUSTOMER_GETLIST", func(_ context.Context, fn *execution.Function) error {
		fn.Exports["TOTAL"] = 0
		return nil
	})

	err = s.Execute(ctx, &customerList{Country: "DE"})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "after calling BAPI_CUSTOMER_GETLIST")
	assert.Contains(t, err.Error(), "TOTAL must be 1 or greater")
}

func TestSession_ValidationNone(t *testing.T) {
	ctx := context.Background()
	sf, _ := newFactory(t, config.ValidationNone)

	assert.Empty(t, sf.Interceptors())

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	defer s.Close()

	bapi := &customerList{Country: "Germany"}
	require.NoError(t, s.Execute(ctx, bapi))
	assert.Equal(t, "country Germany", bapi.Return.Message)
}

func TestSession_InterceptorOrder(t *testing.T) {
	ctx := context.Background()

	var trace []string

	mem := memory.New()
	mem.Handle("BAPI_TRANSACTION_COMMIT", func(context.Context, *execution.Function) error {
		trace = append(trace, "execute")
		return nil
	})

	sf, err := New(config.SessionFactory{Name: "ordered"}, WithContext(mem)).
		AddAnnotatedType(&commit{}).
		AddInterceptor(recorder{name: "first", trace: &trace}).
		AddInterceptor(recorder{name: "second", trace: &trace}).
		BuildSessionFactory()
	require.NoError(t, err)

	interceptors := sf.Interceptors()
	require.Len(t, interceptors, 3)
	assert.IsType(t, &ValidationInterceptor{}, interceptors[0])

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Execute(ctx, &commit{}))
	assert.Equal(t, []string{
		"first before BAPI_TRANSACTION_COMMIT",
		"second before BAPI_TRANSACTION_COMMIT",
		"execute",
		"first after BAPI_TRANSACTION_COMMIT",
		"second after BAPI_TRANSACTION_COMMIT",
	}, trace)
}

func TestSession_InterceptorAborts(t *testing.T) {
	ctx := context.Background()
	veto := errors.New("veto")

	var trace []string

	mem := memory.New()

	sf, err := New(config.SessionFactory{Name: "veto", ValidationMode: config.ValidationNone}, WithContext(mem)).
		AddAnnotatedType(&commit{}).
		AddInterceptor(recorder{name: "guard", trace: &trace, err: veto}).
		BuildSessionFactory()
	require.NoError(t, err)

	s, err := sf.OpenSession(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Execute(ctx, &commit{}), veto)
	assert.Equal(t, []string{"guard before BAPI_TRANSACTION_COMMIT"}, trace)
	assert.Empty(t, mem.Calls())
}

func TestBuildSessionFactory_Errors(t *testing.T) {
	_, err := New(config.SessionFactory{Name: "broken"}, WithContext(memory.New())).
		AddAnnotatedType(&brokenCall{}).
		AddAnnotatedType(&notMapped{}).
		BuildSessionFactory()
	require.Error(t, err)

	assert.Contains(t, err.Error(), `session factory "broken"`)
	assert.Contains(t, err.Error(), "brokenCall")
	assert.Contains(t, err.Error(), "notMapped")

	_, err = New(config.SessionFactory{Name: "remote", Context: "carrier-pigeon"}).BuildSessionFactory()
	assert.ErrorIs(t, err, execution.ErrUnknownContext)

	_, err = New(config.SessionFactory{Name: "bad", ValidationMode: "sometimes"}).BuildSessionFactory()
	assert.Error(t, err)
}

func TestBuildSessionFactory_DefaultContext(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	sf, err := New(config.SessionFactory{Name: "defaults", Properties: map[string]string{"memory.trace": "on"}}, WithLogger(zap.New(core))).
		AddAnnotatedType(&commit{}).
		BuildSessionFactory()
	require.NoError(t, err)

	mem, ok := sf.Context().(*memory.Context)
	require.True(t, ok, "the memory context is the default")
	assert.Equal(t, "on", mem.Properties().Get("memory.trace", ""))

	assert.Equal(t, "defaults", sf.Name())
	_, ok = sf.Mapping(reflect.TypeOf(&commit{}))
	assert.True(t, ok)
	assert.Len(t, sf.Mappings(), 1)

	built := logs.FilterMessage("session factory built").All()
	require.Len(t, built, 1)
	assert.Equal(t, "defaults", built[0].ContextMap()["session_factory"])
	assert.Equal(t, "memory", built[0].ContextMap()["context"])

	require.NoError(t, sf.Close())
	require.NoError(t, sf.Close())
	assert.Equal(t, 1, logs.FilterMessage("session factory closed").Len())

	_, err = sf.OpenSession(context.Background())
	assert.ErrorIs(t, err, ErrFactoryClosed)
}
