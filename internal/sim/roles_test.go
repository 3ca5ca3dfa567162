package sim

import "testing"

var rotationRoles = []Role{RoleSetter, RoleOutside1, RoleMiddle1, RoleOpposite, RoleOutside2, RoleMiddle2}

func TestZoneForIsAPermutationEveryRotation(t *testing.T) {
	for rot := 1; rot <= NumZones; rot++ {
		seen := map[int]Role{}
		for _, r := range rotationRoles {
			z := ZoneFor(r, rot)
			if z < 1 || z > NumZones {
				t.Fatalf("rotation %d: %s in zone %d, outside 1..6", rot, r, z)
			}
			if prev, dup := seen[z]; dup {
				t.Fatalf("rotation %d: zone %d held by both %s and %s", rot, z, prev, r)
			}
			seen[z] = r
		}
	}
}

func TestZoneForRotationOne(t *testing.T) {
	want := map[Role]int{
		RoleSetter:   1,
		RoleOutside1: 2,
		RoleMiddle1:  3,
		RoleOpposite: 4,
		RoleOutside2: 5,
		RoleMiddle2:  6,
	}
	for r, z := range want {
		if got := ZoneFor(r, 1); got != z {
			t.Errorf("rotation 1: %s in zone %d, want %d", r, got, z)
		}
	}
}

func TestZoneForAdvancesAgainstTheRing(t *testing.T) {
	// One rotation step moves every role one zone down the ring: the
	// zone-2 player rotates to zone 1, zone 1 to zone 6, and so on.
	for rot := 1; rot <= NumZones; rot++ {
		next := rot%NumZones + 1
		for _, r := range rotationRoles {
			z := ZoneFor(r, rot)
			wantNext := z - 1
			if wantNext == 0 {
				wantNext = NumZones
			}
			if got := ZoneFor(r, next); got != wantNext {
				t.Errorf("%s: rotation %d->%d moved zone %d->%d, want %d", r, rot, next, z, got, wantNext)
			}
		}
	}
}

func TestZoneForWrapsOutOfRangeRotations(t *testing.T) {
	for _, r := range rotationRoles {
		if ZoneFor(r, 7) != ZoneFor(r, 1) {
			t.Errorf("%s: rotation 7 should equal rotation 1", r)
		}
		if ZoneFor(r, 0) != ZoneFor(r, 6) {
			t.Errorf("%s: rotation 0 should equal rotation 6", r)
		}
		if ZoneFor(r, -5) != ZoneFor(r, 1) {
			t.Errorf("%s: rotation -5 should equal rotation 1", r)
		}
	}
}

func TestRoleAtZoneInvertsZoneFor(t *testing.T) {
	for rot := 1; rot <= NumZones; rot++ {
		for z := 1; z <= NumZones; z++ {
			r := RoleAtZone(z, rot)
			if got := ZoneFor(r, rot); got != z {
				t.Errorf("rotation %d: RoleAtZone(%d)=%s but ZoneFor(%s)=%d", rot, z, r, r, got)
			}
		}
	}
}

func TestLiberoReportsBackRowMiddleZone(t *testing.T) {
	for rot := 1; rot <= NumZones; rot++ {
		mid := backRowMiddle(rot)
		if IsFrontRow(ZoneFor(mid, rot)) {
			t.Fatalf("rotation %d: backRowMiddle %s is in the front row", rot, mid)
		}
		if got, want := ZoneFor(RoleLibero, rot), ZoneFor(mid, rot); got != want {
			t.Errorf("rotation %d: libero zone %d, want %d (replacing %s)", rot, got, want, mid)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	cases := map[Role]Category{
		RoleSetter:   CatSetter,
		RoleOutside1: CatOutside,
		RoleOutside2: CatOutside,
		RoleMiddle1:  CatMiddle,
		RoleMiddle2:  CatMiddle,
		RoleOpposite: CatOpposite,
		RoleLibero:   CatLibero,
	}
	for r, want := range cases {
		if got := CategoryOf(r); got != want {
			t.Errorf("CategoryOf(%s) = %s, want %s", r, got, want)
		}
	}
}
