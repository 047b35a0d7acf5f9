package oracle

import (
	"reflect"

	"github.com/golang/mock/gomock"

	"github.com/mus-extract/gomus/internal/cnf"
)

// MockOracle is a hand-written gomock-style mock of Oracle, used by
// internal/worker and internal/strategy tests to drive refinement,
// tainted-core, and rotation edge cases that are awkward to construct as
// real CNF (spec.md §6 treats the SAT oracle as an abstract, swappable
// back-end, so a test double satisfying the same Oracle interface is a
// faithful substitute).
type MockOracle struct {
	ctrl     *gomock.Controller
	recorder *MockOracleRecorder
}

// MockOracleRecorder records expected calls for MockOracle.
type MockOracleRecorder struct {
	mock *MockOracle
}

// NewMockOracle returns a new mock bound to ctrl.
func NewMockOracle(ctrl *gomock.Controller) *MockOracle {
	m := &MockOracle{ctrl: ctrl}
	m.recorder = &MockOracleRecorder{m}
	return m
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockOracle) EXPECT() *MockOracleRecorder {
	return m.recorder
}

func (m *MockOracle) AddGroup(gid cnf.GID, clauses [][]cnf.Lit, final bool) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "AddGroup", gid, clauses, final)
}

func (mr *MockOracleRecorder) AddGroup(gid, clauses, final interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddGroup", reflect.TypeOf((*MockOracle)(nil).AddGroup), gid, clauses, final)
}

func (m *MockOracle) DeactivateGroup(gid cnf.GID) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DeactivateGroup", gid)
}

func (mr *MockOracleRecorder) DeactivateGroup(gid interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeactivateGroup", reflect.TypeOf((*MockOracle)(nil).DeactivateGroup), gid)
}

func (m *MockOracle) ActivateGroup(gid cnf.GID) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "ActivateGroup", gid)
}

func (mr *MockOracleRecorder) ActivateGroup(gid interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ActivateGroup", reflect.TypeOf((*MockOracle)(nil).ActivateGroup), gid)
}

func (m *MockOracle) DelGroup(gid cnf.GID) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "DelGroup", gid)
}

func (mr *MockOracleRecorder) DelGroup(gid interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DelGroup", reflect.TypeOf((*MockOracle)(nil).DelGroup), gid)
}

func (m *MockOracle) MakeGroupFinal(gid cnf.GID) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "MakeGroupFinal", gid)
}

func (mr *MockOracleRecorder) MakeGroupFinal(gid interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MakeGroupFinal", reflect.TypeOf((*MockOracle)(nil).MakeGroupFinal), gid)
}

func (m *MockOracle) AddFinalClause(lits []cnf.Lit) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "AddFinalClause", lits)
}

func (mr *MockOracleRecorder) AddFinalClause(lits interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddFinalClause", reflect.TypeOf((*MockOracle)(nil).AddFinalClause), lits)
}

func (m *MockOracle) Solve(assumptions []cnf.Lit) Outcome {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Solve", assumptions)
	out, _ := ret[0].(Outcome)
	return out
}

func (mr *MockOracleRecorder) Solve(assumptions interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Solve", reflect.TypeOf((*MockOracle)(nil).Solve), assumptions)
}

func (m *MockOracle) Model() map[cnf.Var]bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Model")
	out, _ := ret[0].(map[cnf.Var]bool)
	return out
}

func (mr *MockOracleRecorder) Model() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Model", reflect.TypeOf((*MockOracle)(nil).Model))
}

func (m *MockOracle) UnsatCore() map[cnf.GID]bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UnsatCore")
	out, _ := ret[0].(map[cnf.GID]bool)
	return out
}

func (mr *MockOracleRecorder) UnsatCore() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UnsatCore", reflect.TypeOf((*MockOracle)(nil).UnsatCore))
}

func (m *MockOracle) Freeze(v cnf.Var) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Freeze", v)
}

func (mr *MockOracleRecorder) Freeze(v interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Freeze", reflect.TypeOf((*MockOracle)(nil).Freeze), v)
}

func (m *MockOracle) NewVar() cnf.Var {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NewVar")
	out, _ := ret[0].(cnf.Var)
	return out
}

func (mr *MockOracleRecorder) NewVar() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NewVar", reflect.TypeOf((*MockOracle)(nil).NewVar))
}

var _ Oracle = (*MockOracle)(nil)
