/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package client_test

import (
	"time"

	"github.com/google/uuid"

	"dirpx.dev/dtx/client"
)

type OtherType struct {
	SomeNumber          float64
	SomeString          string
	SomeDate            time.Time
	SomeGuid            uuid.UUID
	CollectionOfDates   []time.Time
	CollectionOfNumbers []float64
}

type TargetType interface{ Kind() string }

type FirstDerivative struct{ FirstDerivativeProperty float64 }

type SecondDerivative struct{ SecondDerivativeProperty float64 }

type TopLevel struct {
	SomeNumber               float64
	SomeString               string
	SomeDate                 time.Time
	SomeBoolean              bool
	SomeGuid                 uuid.UUID
	OtherType                OtherType
	Previous                 *OtherType
	CollectionOfOtherType    []OtherType
	CollectionOfDerivedTypes []TargetType
	Single                   TargetType
}

// Untyped implements TargetType but has no client type.
type Untyped struct{}

func (Untyped) Kind() string { return "untyped" }

var otherTypeType = client.NewType[OtherType]("OtherType",
	client.Value("someNumber", client.Number, func(o *OtherType) *float64 { return &o.SomeNumber }),
	client.Value("someString", client.String, func(o *OtherType) *string { return &o.SomeString }),
	client.Value("someDate", client.Date, func(o *OtherType) *time.Time { return &o.SomeDate }),
	client.Value("someGuid", client.Guid, func(o *OtherType) *uuid.UUID { return &o.SomeGuid }),
	client.Values("collectionOfDates", client.Date, func(o *OtherType) *[]time.Time { return &o.CollectionOfDates }),
	client.Values("collectionOfNumbers", client.Number, func(o *OtherType) *[]float64 { return &o.CollectionOfNumbers }),
)

var firstDerivativeType = client.NewType[FirstDerivative]("FirstDerivative",
	client.Value("firstDerivativeProperty", client.Number, func(f *FirstDerivative) *float64 { return &f.FirstDerivativeProperty }),
).WithDerivedTypeID("ad7593d1-71be-4e26-9026-aedb32fc43d3")

var secondDerivativeType = client.NewType[SecondDerivative]("SecondDerivative",
	client.Value("secondDerivativeProperty", client.Number, func(s *SecondDerivative) *float64 { return &s.SecondDerivativeProperty }),
).WithDerivedTypeID("A038CA48-360E-46A7-8CB2-882FF21BB623")

var topLevelType = client.NewType[TopLevel]("TopLevel",
	client.Value("someNumber", client.Number, func(t *TopLevel) *float64 { return &t.SomeNumber }),
	client.Value("someString", client.String, func(t *TopLevel) *string { return &t.SomeString }),
	client.Value("someDate", client.Date, func(t *TopLevel) *time.Time { return &t.SomeDate }),
	client.Value("someBoolean", client.Boolean, func(t *TopLevel) *bool { return &t.SomeBoolean }),
	client.Value("someGuid", client.Guid, func(t *TopLevel) *uuid.UUID { return &t.SomeGuid }),
	client.Object("otherType", otherTypeType, func(t *TopLevel) *OtherType { return &t.OtherType }),
	client.ObjectRef("previous", otherTypeType, func(t *TopLevel) **OtherType { return &t.Previous }),
	client.Objects("collectionOfOtherType", otherTypeType, func(t *TopLevel) *[]OtherType { return &t.CollectionOfOtherType }),
	client.DerivedCollection("collectionOfDerivedTypes", func(t *TopLevel) *[]TargetType { return &t.CollectionOfDerivedTypes },
		firstDerivativeType, secondDerivativeType),
	client.Derived("single", func(t *TopLevel) *TargetType { return &t.Single },
		firstDerivativeType, secondDerivativeType),
)

func (*OtherType) ClientType() *client.Type        { return otherTypeType }
func (*FirstDerivative) ClientType() *client.Type  { return firstDerivativeType }
func (*SecondDerivative) ClientType() *client.Type { return secondDerivativeType }
func (*TopLevel) ClientType() *client.Type         { return topLevelType }

func (*FirstDerivative) Kind() string  { return "first" }
func (*SecondDerivative) Kind() string { return "second" }
