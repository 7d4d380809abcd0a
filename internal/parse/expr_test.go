package parse

import (
	"testing"
)

func TestExpressions(t *testing.T) {
	t.Parallel()

	f := mustParse(t, `<?php
namespace App\Http\Resources;

use Illuminate\Support\Facades\Schema;

class Sample
{
    public function run()
    {
        $this->middleware('auth');
        Schema::create('users', function ($table) {
            $table->id();
        });
        return ['a' => 'x', "b" => new PostResource($x), 3 => 1_000, true, Post::class];
    }
}
`)
	c := f.FirstDeclaration(KindClass)
	stmts := c.Method("run").Statements()
	if len(stmts) != 3 {
		t.Fatalf("statements = %d, want 3", len(stmts))
	}

	call, ok := c.Call(Expression(stmts[0]))
	if !ok || call.Kind != MemberCall || call.Name != "middleware" || !c.IsThis(call.Object) {
		t.Errorf("member call = %+v, %v", call, ok)
	}
	if s, ok := c.String(call.Arg(0)); !ok || s != "auth" {
		t.Errorf("middleware arg = %q, %v", s, ok)
	}

	schema, ok := c.Call(Expression(stmts[1]))
	if !ok || schema.Kind != StaticCall || schema.Class != `Illuminate\Support\Facades\Schema` || schema.Name != "create" {
		t.Fatalf("static call = %+v, %v", schema, ok)
	}
	body, ok := ClosureStatements(schema.Arg(1))
	if !ok || len(body) != 1 {
		t.Errorf("closure statements = %d, %v", len(body), ok)
	}

	ret, ok := Returned(stmts[2])
	if !ok {
		t.Fatal("return not decoded")
	}
	items, ok := c.Array(ret)
	if !ok || len(items) != 5 {
		t.Fatalf("array items = %d, %v", len(items), ok)
	}
	if s, ok := c.String(items[0]); !ok || s != "x" {
		t.Errorf("items[0] = %q, %v", s, ok)
	}
	if cls, ok := c.New(items[1]); !ok || cls != `App\Http\Resources\PostResource` {
		t.Errorf("items[1] = %q, %v", cls, ok)
	}
	if n, ok := c.Int(items[2]); !ok || n != 1000 {
		t.Errorf("items[2] = %d, %v", n, ok)
	}
	if b, ok := c.Bool(items[3]); !ok || !b {
		t.Errorf("items[3] = %v, %v", b, ok)
	}
	if cls, ok := c.ClassConstant(items[4]); !ok || cls != `App\Http\Resources\Post` {
		t.Errorf("items[4] = %q, %v", cls, ok)
	}
}

func TestStringLiterals(t *testing.T) {
	t.Parallel()

	f := mustParse(t, `<?php
class S
{
    public $single = 'it\'s';
    public $double = "line\tend";
    public $interp = "hello {$name}";
}
`)
	c := f.FirstDeclaration(KindClass)
	if s, ok := c.String(c.Property("single").Default); !ok || s != "it's" {
		t.Errorf("single = %q, %v", s, ok)
	}
	if s, ok := c.String(c.Property("double").Default); !ok || s != "line\tend" {
		t.Errorf("double = %q, %v", s, ok)
	}
	if _, ok := c.String(c.Property("interp").Default); ok {
		t.Error("interpolated string reported as literal")
	}
}
