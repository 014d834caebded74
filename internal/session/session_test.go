package session

import (
	"testing"

	"github.com/lostandfound/server/internal/geometry"
	"github.com/lostandfound/server/internal/ids"
)

func TestJoinAndLookup(t *testing.T) {
	r := NewRegistry()
	token, playerID, dogID, err := r.Join("alice", ids.MapID("m1"), geometry.Position{X: 1, Y: 2}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(token) != 32 {
		t.Fatalf("expected 32-char token, got %q (%d chars)", token, len(token))
	}

	byToken, ok := r.FindByToken(token)
	if !ok || byToken.ID != playerID {
		t.Fatalf("expected to find player by token")
	}

	byID, ok := r.FindPlayer(playerID)
	if !ok || byID.DogID != dogID {
		t.Fatalf("expected to find player by id with matching dog id")
	}

	dog, ok := r.FindDog(dogID)
	if !ok || dog.Position != (geometry.Position{X: 1, Y: 2}) {
		t.Fatalf("expected to find dog at spawn position, got %+v", dog)
	}
}

func TestSetActionTranslatesMoveCodes(t *testing.T) {
	r := NewRegistry()
	_, playerID, dogID, _ := r.Join("alice", ids.MapID("m1"), geometry.Position{}, 3)

	ok, err := r.SetAction(playerID, "R", 2.0)
	if err != nil || !ok {
		t.Fatalf("expected SetAction to succeed, err=%v ok=%v", err, ok)
	}
	dog, _ := r.FindDog(dogID)
	if dog.Velocity != (geometry.Velocity{VX: 2.0}) || dog.Facing != geometry.DirEast {
		t.Fatalf("expected velocity (2,0) facing east, got %+v facing %v", dog.Velocity, dog.Facing)
	}

	ok, err = r.SetAction(playerID, "bogus", 2.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected unrecognized move code to report false")
	}
}

func TestRemoveKeepsIndicesConsistent(t *testing.T) {
	r := NewRegistry()
	_, p1, _, _ := r.Join("alice", ids.MapID("m1"), geometry.Position{}, 3)
	token2, p2, d2, _ := r.Join("bob", ids.MapID("m1"), geometry.Position{}, 3)

	if !r.Remove(p1) {
		t.Fatal("expected removal of first player to succeed")
	}

	if _, ok := r.FindPlayer(p1); ok {
		t.Fatal("expected removed player to be gone")
	}

	byToken, ok := r.FindByToken(token2)
	if !ok || byToken.ID != p2 {
		t.Fatalf("expected remaining player still reachable by token after reindex, got %+v ok=%v", byToken, ok)
	}
	if dog, ok := r.FindDog(d2); !ok || dog.ID != d2 {
		t.Fatalf("expected remaining dog still reachable after reindex")
	}

	if len(r.AllPlayers()) != 1 || len(r.AllDogs()) != 1 {
		t.Fatalf("expected exactly one player and dog left, got %d/%d", len(r.AllPlayers()), len(r.AllDogs()))
	}

	if r.Remove(p1) {
		t.Fatal("expected a second removal of the same player to be a no-op")
	}
}

func TestPlayersOnMapFiltersByMap(t *testing.T) {
	r := NewRegistry()
	r.Join("alice", ids.MapID("m1"), geometry.Position{}, 3)
	r.Join("bob", ids.MapID("m2"), geometry.Position{}, 3)

	onM1 := r.PlayersOnMap(ids.MapID("m1"))
	if len(onM1) != 1 || onM1[0].Name != "alice" {
		t.Fatalf("expected only alice on m1, got %+v", onM1)
	}
}
